package declaration

import (
	"fmt"
	"math"
)

// Serialize reconstructs the exact API payload shape from edited canonical
// data, the inverse of Normalize. The template branch is taken once here;
// each path is its own function.
//
// Missing fields never fail serialization — defaults apply. The only error is
// structural: SEALNET data without its retained source entries, which
// Normalize cannot produce.
func Serialize(c *CanonicalData) ([]map[string]any, error) {
	if c == nil {
		return nil, fmt.Errorf("no canonical data to serialize")
	}
	if c.TemplateType == TemplateSEALNET {
		return serializeSealnet(c)
	}
	return serializeALDEC(c), nil
}

// put writes a value and, when a score exists, its sibling confidence.
// Confidences are carried through, never synthesized.
func put(m map[string]any, key string, value any, confidence *float64) {
	m[key] = value
	if confidence != nil {
		m[key+"_confidence"] = *confidence
	}
}

// num guards serialized numbers against NaN/Inf leaking into JSON.
func num(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// serializeALDEC produces the flat single-element array shape. The field list
// is explicit so renaming or removing a field is a deliberate change here,
// not a silent side effect of a generic loop.
//
// The statisticalUOM array is rebuilt with exactly one entry from the display
// projection; any additional units the extraction found are not carried back
// on this path. Known lossy round trip, kept as-is pending product
// clarification.
func serializeALDEC(c *CanonicalData) []map[string]any {
	g := c.GeneralInformation

	entry := map[string]any{
		"templateType": string(TemplateALDEC),
	}
	put(entry, "invoiceNumber", g.InvoiceNumber, g.InvoiceNumberConfidence)
	put(entry, "invoiceValue", num(g.InvoiceValue), g.InvoiceValueConfidence)
	put(entry, "invoiceDate", g.InvoiceDate, g.InvoiceDateConfidence)
	put(entry, "incoterms", g.Incoterms, g.IncotermsConfidence)
	put(entry, "currency", g.Currency, g.CurrencyConfidence)
	put(entry, "grossWeight", num(g.GrossWeight), g.GrossWeightConfidence)
	put(entry, "netWeight", num(g.NetWeight), g.NetWeightConfidence)
	put(entry, "packageCount", num(g.PackageCount), g.PackageCountConfidence)
	put(entry, "description", g.Description, g.DescriptionConfidence)
	put(entry, "consigneeName", g.ConsigneeName, g.ConsigneeNameConfidence)
	put(entry, "consigneeAddress", g.ConsigneeAddress, g.ConsigneeAddressConfidence)
	put(entry, "consigneeROBROC", g.ConsigneeROBROC, g.ConsigneeROBROCConfidence)
	put(entry, "consignorName", g.ConsignorName, g.ConsignorNameConfidence)
	put(entry, "consignorAddress", g.ConsignorAddress, g.ConsignorAddressConfidence)
	put(entry, "consignorROBROC", g.ConsignorROBROC, g.ConsignorROBROCConfidence)

	items := make([]any, 0, len(c.JobCargo.Items))
	for _, item := range c.JobCargo.Items {
		items = append(items, serializeALDECItem(item))
	}
	entry["items"] = items

	return []map[string]any{entry}
}

func serializeALDECItem(item JobCargoItem) map[string]any {
	out := map[string]any{}
	put(out, "countryOfOrigin", item.CountryOfOrigin, item.CountryOfOriginConfidence)
	put(out, "hsCode", item.HSCode, item.HSCodeConfidence)
	put(out, "declaredQty", num(item.DeclaredQty), item.DeclaredQtyConfidence)
	put(out, "declaredUOM", item.DeclaredUOM, item.DeclaredUOMConfidence)
	put(out, "statisticalQty", num(item.StatisticalQty), item.StatisticalQtyConfidence)
	put(out, "itemAmount", num(item.ItemAmount), item.ItemAmountConfidence)
	put(out, "itemDescription", item.ItemDescription, item.ItemDescriptionConfidence)
	put(out, "itemDescription2", item.ItemDescription2, item.ItemDescription2Confidence)
	put(out, "itemDescription3", item.ItemDescription3, item.ItemDescription3Confidence)

	out["statisticalUOM"] = []any{map[string]any{
		"UOM":      item.StatisticalUOM,
		"quantity": num(item.StatisticalQty),
	}}

	// Pack fields only exist on K9 items; omitting them (rather than writing
	// nulls) keeps non-K9 exports clean.
	if item.PackQty != nil {
		out["packQty"] = num(*item.PackQty)
	}
	if item.PackUOM != nil {
		out["packUOM"] = *item.PackUOM
	}

	return out
}

// serializeSealnet clones each original raw entry and overwrites only the
// fields the UI can edit, so everything the UI never displays survives the
// round trip untouched.
func serializeSealnet(c *CanonicalData) ([]map[string]any, error) {
	if len(c.RawEntries) == 0 {
		return nil, fmt.Errorf("sealnet data is missing its source entries")
	}

	out := make([]map[string]any, 0, len(c.RawEntries))
	position := 0
	for entryIndex, rawEntry := range c.RawEntries {
		clone := deepCopyMap(rawEntry)

		// Header fields are edited against the first document only.
		if entryIndex == 0 {
			patchSealnetGeneral(clone, c.GeneralInformation)
		}

		items, _ := rawItems(clone)
		for itemIndex, rawItem := range items {
			ref := rawItemRef{DataIndex: entryIndex, ItemIndex: itemIndex, Position: position}
			position++
			edited := matchItem(ref, c.JobCargo.Items)
			if edited == nil {
				// No UI counterpart: the original passes through unedited.
				continue
			}
			patchSealnetItem(rawItem, edited)
		}

		out = append(out, clone)
	}
	return out, nil
}

// patchSealnetGeneral overwrites the editable header fields. Invoice number
// and the ROB/ROC references are written under both the current and the
// legacy key names: two backend consumers historically diverged on these and
// both spellings remain live.
func patchSealnetGeneral(entry map[string]any, g GeneralInformation) {
	put(entry, "invoiceNumber", g.InvoiceNumber, g.InvoiceNumberConfidence)
	entry["invoceNumber"] = g.InvoiceNumber
	put(entry, "invoiceValue", num(g.InvoiceValue), g.InvoiceValueConfidence)
	put(entry, "invoiceDate", g.InvoiceDate, g.InvoiceDateConfidence)
	put(entry, "incoterms", g.Incoterms, g.IncotermsConfidence)
	put(entry, "currency", g.Currency, g.CurrencyConfidence)
	put(entry, "grossWeight", num(g.GrossWeight), g.GrossWeightConfidence)
	put(entry, "netWeight", num(g.NetWeight), g.NetWeightConfidence)
	put(entry, "packageCount", num(g.PackageCount), g.PackageCountConfidence)
	put(entry, "description", g.Description, g.DescriptionConfidence)
	put(entry, "consigneeName", g.ConsigneeName, g.ConsigneeNameConfidence)
	put(entry, "consigneeAddress", g.ConsigneeAddress, g.ConsigneeAddressConfidence)
	put(entry, "consigneeROBROC", g.ConsigneeROBROC, g.ConsigneeROBROCConfidence)
	entry["consigneeRobRoc"] = g.ConsigneeROBROC
	put(entry, "consignorName", g.ConsignorName, g.ConsignorNameConfidence)
	put(entry, "consignorAddress", g.ConsignorAddress, g.ConsignorAddressConfidence)
	put(entry, "consignorROBROC", g.ConsignorROBROC, g.ConsignorROBROCConfidence)
	entry["consignorRobRoc"] = g.ConsignorROBROC
	put(entry, "vesselName", g.VesselName, g.VesselNameConfidence)
	put(entry, "arrivalDate", g.ArrivalDate, g.ArrivalDateConfidence)
}

func patchSealnetItem(rawItem map[string]any, edited *JobCargoItem) {
	put(rawItem, "countryOfOrigin", edited.CountryOfOrigin, edited.CountryOfOriginConfidence)
	put(rawItem, "hsCode", edited.HSCode, edited.HSCodeConfidence)
	put(rawItem, "declaredQty", num(edited.DeclaredQty), edited.DeclaredQtyConfidence)
	put(rawItem, "declaredUOM", edited.DeclaredUOM, edited.DeclaredUOMConfidence)
	put(rawItem, "statisticalQty", num(edited.StatisticalQty), edited.StatisticalQtyConfidence)
	put(rawItem, "itemAmount", num(edited.ItemAmount), edited.ItemAmountConfidence)
	put(rawItem, "itemDescription", edited.ItemDescription, edited.ItemDescriptionConfidence)
	put(rawItem, "itemDescription2", edited.ItemDescription2, edited.ItemDescription2Confidence)
	put(rawItem, "itemDescription3", edited.ItemDescription3, edited.ItemDescription3Confidence)
	put(rawItem, "productCode", edited.ProductCode, nil)
	put(rawItem, "extraDescription", edited.ExtraDescription, nil)
	if edited.StatisticalDetails != "" {
		rawItem["statisticalDetails"] = edited.StatisticalDetails
	}

	rawItem["statisticalEntries"] = statisticalEntriesPayload(rawItem, edited)
}

// statisticalEntriesPayload rebuilds an item's statistical entries in
// priority order: the edited entry list, then the original raw statisticalUOM
// array, then a parse of the free-text details.
func statisticalEntriesPayload(rawItem map[string]any, edited *JobCargoItem) []any {
	entries := edited.StatisticalEntries
	if len(entries) == 0 {
		entries = statisticalEntryList(rawItem["statisticalUOM"], nil)
	}
	if len(entries) == 0 && edited.StatisticalDetails != "" {
		entries = ParseStatisticalDetails(edited.StatisticalDetails)
	}

	out := make([]any, 0, len(entries))
	for _, e := range entries {
		m := map[string]any{
			"UOM":      e.UOM,
			"quantity": num(e.Quantity),
		}
		if e.Confidence != nil {
			m["confidence"] = *e.Confidence
		}
		out = append(out, m)
	}
	return out
}
