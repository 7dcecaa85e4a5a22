package services

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klearport/customs-console/internal/declaration"
)

// ExportWorkbook renders canonical declaration data into an xlsx workbook
// laid out by the form-type column registry: a header block with the general
// information, then one row per cargo item under the registry's columns.
func ExportWorkbook(data *declaration.CanonicalData, formType declaration.FormType) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", declaration.FormName(formType)); err != nil {
		return nil, fmt.Errorf("failed to write form name: %w", err)
	}

	g := data.GeneralInformation
	header := []struct {
		label string
		value any
	}{
		{"Invoice Number", g.InvoiceNumber},
		{"Invoice Date", g.InvoiceDate},
		{"Invoice Value", g.InvoiceValue},
		{"Currency", g.Currency},
		{"Incoterms", g.Incoterms},
		{"Gross Weight", g.GrossWeight},
		{"Net Weight", g.NetWeight},
		{"Consignee", g.ConsigneeName},
		{"Consignor", g.ConsignorName},
	}
	row := 3
	for _, h := range header {
		labelCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, labelCell, h.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, valueCell, h.value); err != nil {
			return nil, err
		}
		row++
	}

	columns := declaration.ColumnsForFormType(formType)
	row++
	headerRow := row
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return nil, err
		}
	}

	for itemIdx, item := range data.JobCargo.Items {
		fields, err := itemFieldMap(item)
		if err != nil {
			return nil, err
		}
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, headerRow+1+itemIdx)
			if err != nil {
				return nil, err
			}
			value, ok := fields[col.Field]
			if !ok || value == nil {
				continue
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// itemFieldMap exposes a cargo item's values by their json keys so the
// exporter can follow Column.Field without a hand-maintained switch.
func itemFieldMap(item declaration.JobCargoItem) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten item: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to flatten item: %w", err)
	}
	return fields, nil
}
