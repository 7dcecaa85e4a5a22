package declaration

// ColumnType tells the table renderer how to edit a cell.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnNumber ColumnType = "number"
)

// Column describes one display column of a form layout. Field is the JSON key
// of the JobCargoItem field the column reads and writes; the registry and the
// item model are kept in lockstep (a column naming a nonexistent field is a
// construction-time bug, enforced by test).
type Column struct {
	Field string     `json:"field"`
	Label string     `json:"label"`
	Width int        `json:"width,omitempty"`
	Type  ColumnType `json:"type"`
	Step  float64    `json:"step,omitempty"`
}

// FormTypeInfo is one registry entry, for selector UIs.
type FormTypeInfo struct {
	Key         FormType `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

type formLayout struct {
	name        string
	description string
	columns     []Column
}

func textCol(field, label string, width int) Column {
	return Column{Field: field, Label: label, Width: width, Type: ColumnText}
}

func numCol(field, label string, width int, step float64) Column {
	return Column{Field: field, Label: label, Width: width, Type: ColumnNumber, Step: step}
}

func k1Columns() []Column {
	return []Column{
		textCol("countryOfOrigin", "Country of Origin", 120),
		textCol("hsCode", "HS Code", 130),
		numCol("declaredQty", "Declared Qty", 110, 0.01),
		textCol("declaredUOM", "Declared UOM", 100),
		numCol("statisticalQty", "Statistical Qty", 110, 0.01),
		textCol("statisticalUOM", "Statistical UOM", 100),
		numCol("itemAmount", "Item Amount", 120, 0.01),
		textCol("itemDescription", "Description", 220),
		textCol("itemDescription2", "Description 2", 180),
		textCol("itemDescription3", "Description 3", 180),
	}
}

func k2Columns() []Column {
	return []Column{
		textCol("countryOfOrigin", "Country of Destination", 120),
		textCol("hsCode", "HS Code", 130),
		numCol("declaredQty", "Declared Qty", 110, 0.01),
		textCol("declaredUOM", "Declared UOM", 100),
		numCol("statisticalQty", "Statistical Qty", 110, 0.01),
		textCol("statisticalUOM", "Statistical UOM", 100),
		numCol("itemAmount", "FOB Value", 120, 0.01),
		textCol("itemDescription", "Description", 220),
		textCol("itemDescription2", "Description 2", 180),
	}
}

func k3Columns() []Column {
	return []Column{
		textCol("countryOfOrigin", "Country of Origin", 120),
		textCol("hsCode", "HS Code", 130),
		numCol("declaredQty", "Quantity", 110, 0.01),
		textCol("declaredUOM", "UOM", 100),
		numCol("itemAmount", "Value", 120, 0.01),
		textCol("itemDescription", "Description", 260),
		textCol("itemDescription2", "Description 2", 200),
	}
}

func k8Columns() []Column {
	return []Column{
		textCol("hsCode", "HS Code", 130),
		numCol("declaredQty", "Declared Qty", 110, 0.01),
		textCol("declaredUOM", "Declared UOM", 100),
		numCol("statisticalQty", "Statistical Qty", 110, 0.01),
		textCol("statisticalUOM", "Statistical UOM", 100),
		textCol("itemDescription", "Description", 280),
	}
}

func k9Columns() []Column {
	cols := k1Columns()
	return append(cols,
		numCol("packQty", "Pack Qty", 100, 1),
		textCol("packUOM", "Pack UOM", 100),
	)
}

// sealnetColumns extends a base layout with the SEALNET-only item fields.
func sealnetColumns(base []Column) []Column {
	cols := make([]Column, 0, len(base)+2)
	cols = append(cols, textCol("productCode", "Product Code", 130))
	cols = append(cols, base...)
	return append(cols, textCol("extraDescription", "Extra Description", 200))
}

var formLayouts = map[FormType]formLayout{
	FormK1: {
		name:        "Borang Kastam No.1 (Import)",
		description: "Import declaration for dutiable goods",
		columns:     k1Columns(),
	},
	FormK2: {
		name:        "Borang Kastam No.2 (Export)",
		description: "Export declaration",
		columns:     k2Columns(),
	},
	FormK3: {
		name:        "Borang Kastam No.3 (Local Movement)",
		description: "Movement of goods within the country",
		columns:     k3Columns(),
	},
	FormK8: {
		name:        "Borang Kastam No.8 (Transshipment)",
		description: "Transshipment and bonded movement",
		columns:     k8Columns(),
	},
	FormK9: {
		name:        "Borang Kastam No.9 (Partial Clearance)",
		description: "Partial clearance from a licensed warehouse",
		columns:     k9Columns(),
	},
	FormSealnetK1: {
		name:        "Sealnet K1",
		description: "Import declaration, Sealnet template",
		columns:     sealnetColumns(k1Columns()),
	},
	FormSealnetK2: {
		name:        "Sealnet K2",
		description: "Export declaration, Sealnet template",
		columns:     sealnetColumns(k2Columns()),
	},
	FormSealnetK3: {
		name:        "Sealnet K3",
		description: "Local movement, Sealnet template",
		columns:     sealnetColumns(k3Columns()),
	},
	FormSealnetK8: {
		name:        "Sealnet K8",
		description: "Transshipment, Sealnet template",
		columns:     sealnetColumns(k8Columns()),
	},
	FormSealnetK9: {
		name:        "Sealnet K9",
		description: "Partial clearance, Sealnet template",
		columns:     sealnetColumns(k9Columns()),
	},
}

// ColumnsForFormType returns the ordered column list for a form type. Unknown
// keys fall back to the K1 layout; the lookup never fails.
func ColumnsForFormType(formType FormType) []Column {
	if layout, ok := formLayouts[formType]; ok {
		return layout.columns
	}
	return formLayouts[FormK1].columns
}

// FormName returns the human-readable label for a form type, with the same
// K1 fallback as ColumnsForFormType.
func FormName(formType FormType) string {
	if layout, ok := formLayouts[formType]; ok {
		return layout.name
	}
	return formLayouts[FormK1].name
}

// AvailableFormTypes enumerates all registered layouts in a stable order.
func AvailableFormTypes() []FormTypeInfo {
	order := []FormType{
		FormK1, FormK2, FormK3, FormK8, FormK9,
		FormSealnetK1, FormSealnetK2, FormSealnetK3, FormSealnetK8, FormSealnetK9,
	}
	out := make([]FormTypeInfo, 0, len(order))
	for _, key := range order {
		layout := formLayouts[key]
		out = append(out, FormTypeInfo{Key: key, Name: layout.name, Description: layout.description})
	}
	return out
}
