package declaration

import "fmt"

// Normalize converts a raw backend extraction payload, in either template
// shape, into the canonical UI data model. A lone object is accepted as a
// one-element array. The template is taken from hint when given, otherwise
// inferred from the payload.
//
// Header fields come from the first entry only: multi-document sessions
// surface the first document's general information, by design. Cargo items
// are flattened across every entry, none dropped, each tagged with an ID
// recording its origin. Every canonical field is populated; absent input
// degrades to ""/0/nil, never to an invented value.
func Normalize(raw any, hint TemplateType) (*CanonicalData, error) {
	entries := entryList(raw)
	if len(entries) == 0 {
		return nil, &EmptyPayloadError{}
	}

	template := hint
	if template == "" {
		template = detectTemplate(entries[0])
	}

	data := &CanonicalData{
		TemplateType:       template,
		GeneralInformation: normalizeGeneral(entries[0], template),
		JobCargo:           JobCargo{Items: []JobCargoItem{}},
		RawEntries:         entries,
	}

	for entryIndex, entry := range entries {
		items, _ := rawItems(entry)
		for itemIndex, rawItem := range items {
			data.JobCargo.Items = append(data.JobCargo.Items,
				normalizeItem(rawItem, entryIndex, itemIndex, template))
		}
	}

	return data, nil
}

// Validate reports sections the presentation layer requires before a preview
// may open.
func (c *CanonicalData) Validate() error {
	if c.JobCargo.Items == nil {
		return &MissingSectionError{Section: "job cargo"}
	}
	if c.GeneralInformation == (GeneralInformation{}) {
		return &MissingSectionError{Section: "general information"}
	}
	return nil
}

// detectTemplate infers the template family: SEALNET when the entry nests
// items under sealnetData or tags itself explicitly, ALDEC otherwise.
func detectTemplate(entry map[string]any) TemplateType {
	if sealnet, ok := entry["sealnetData"].(map[string]any); ok {
		if _, ok := sealnet["items"]; ok {
			return TemplateSEALNET
		}
	}
	if tag, _ := stringField(entry, "templateType"); tag == string(TemplateSEALNET) {
		return TemplateSEALNET
	}
	return TemplateALDEC
}

func normalizeGeneral(entry map[string]any, template TemplateType) GeneralInformation {
	g := GeneralInformation{}

	g.InvoiceNumber, g.InvoiceNumberConfidence = invoiceNumberField(entry)
	g.InvoiceValue, g.InvoiceValueConfidence = numberField(entry, "invoiceValue")
	g.InvoiceDate, g.InvoiceDateConfidence = stringField(entry, "invoiceDate")
	g.Incoterms, g.IncotermsConfidence = stringField(entry, "incoterms")
	g.Currency, g.CurrencyConfidence = stringField(entry, "currency")
	g.GrossWeight, g.GrossWeightConfidence = numberField(entry, "grossWeight")
	g.NetWeight, g.NetWeightConfidence = numberField(entry, "netWeight")
	g.PackageCount, g.PackageCountConfidence = numberField(entry, "packageCount")
	g.Description, g.DescriptionConfidence = stringField(entry, "description")

	g.ConsigneeName, g.ConsigneeNameConfidence = stringField(entry, "consigneeName")
	g.ConsigneeAddress, g.ConsigneeAddressConfidence = stringField(entry, "consigneeAddress")
	g.ConsigneeROBROC, g.ConsigneeROBROCConfidence = stringField(entry, "consigneeROBROC", "consigneeRobRoc")
	g.ConsignorName, g.ConsignorNameConfidence = stringField(entry, "consignorName")
	g.ConsignorAddress, g.ConsignorAddressConfidence = stringField(entry, "consignorAddress")
	g.ConsignorROBROC, g.ConsignorROBROCConfidence = stringField(entry, "consignorROBROC", "consignorRobRoc")

	if template == TemplateSEALNET {
		g.VesselName, g.VesselNameConfidence = stringField(entry, "vesselName")
		g.ArrivalDate, g.ArrivalDateConfidence = stringField(entry, "arrivalDate")
	}

	return g
}

func normalizeItem(rawItem map[string]any, entryIndex, itemIndex int, template TemplateType) JobCargoItem {
	item := JobCargoItem{
		ID:              fmt.Sprintf("%d-%d", entryIndex, itemIndex),
		SourceDataIndex: entryIndex,
		SourceItemIndex: itemIndex,
	}

	item.CountryOfOrigin, item.CountryOfOriginConfidence = stringField(rawItem, "countryOfOrigin")
	item.HSCode, item.HSCodeConfidence = stringField(rawItem, "hsCode")
	item.ItemAmount, item.ItemAmountConfidence = numberField(rawItem, "itemAmount")
	item.ItemDescription, item.ItemDescriptionConfidence = stringField(rawItem, "itemDescription")
	item.ItemDescription2, item.ItemDescription2Confidence = stringField(rawItem, "itemDescription2")
	item.ItemDescription3, item.ItemDescription3Confidence = stringField(rawItem, "itemDescription3")

	declaredUOM, declaredUOMConf := stringField(rawItem, "declaredUOM")
	item.DeclaredUOM = declaredUOM
	item.DeclaredUOMConfidence = declaredUOMConf
	item.StatisticalQty, item.StatisticalQtyConfidence = numberField(rawItem, "statisticalQty")

	var declaredQtyPtr, statisticalQtyPtr *float64
	if v, ok := rawItem["declaredQty"]; ok && v != nil {
		qty := toFloat(v)
		declaredQtyPtr = &qty
	}
	if v, ok := rawItem["statisticalQty"]; ok && v != nil {
		qty := toFloat(v)
		statisticalQtyPtr = &qty
	}

	// Collect the full statistical entry list. SEALNET items carry either a
	// pre-parsed entry array or a free-text breakdown; ALDEC items carry the
	// legacy statisticalUOM array.
	var entries []StatisticalUOM
	if template == TemplateSEALNET {
		item.ProductCode, _ = stringField(rawItem, "productCode")
		item.ExtraDescription, _ = stringField(rawItem, "extraDescription")
		item.StatisticalDetails, _ = stringField(rawItem, "statisticalDetails")
		entries = statisticalEntryList(rawItem["statisticalEntries"], statisticalQtyPtr)
		if len(entries) == 0 && item.StatisticalDetails != "" {
			entries = ParseStatisticalDetails(item.StatisticalDetails)
		}
	} else {
		entries = statisticalEntryList(rawItem["statisticalUOM"], statisticalQtyPtr)
	}
	item.StatisticalEntries = entries

	// Canonicalize declared vs statistical; the declared value wins and a
	// disagreement is logged, never fatal.
	statSource := rawItem["statisticalUOM"]
	if template == TemplateSEALNET {
		statSource = entries
	}
	canonical := CanonicalizeQuantity(QuantityInput{
		DeclaredUOM:        declaredUOM,
		DeclaredQty:        declaredQtyPtr,
		DeclaredConfidence: confidenceOf(rawItem, "declaredQty"),
		StatisticalUOM:     statSource,
		StatisticalQty:     statisticalQtyPtr,
	})
	item.DeclaredQty = canonical.Qty
	item.DeclaredQtyConfidence = canonical.Confidence
	if item.DeclaredUOM == "" {
		item.DeclaredUOM = canonical.UOM
	}

	item.StatisticalUOM = DisplayStatisticalUOM(entries, item.StatisticalQty, item.DeclaredUOM)
	item.StatisticalUOMConfidence = confidenceOf(rawItem, "statisticalUOM")

	if v, ok := rawItem["packQty"]; ok && v != nil {
		qty := toFloat(v)
		item.PackQty = &qty
	}
	if v, ok := rawItem["packUOM"]; ok && v != nil {
		uom := toString(v)
		item.PackUOM = &uom
	}

	return item
}
