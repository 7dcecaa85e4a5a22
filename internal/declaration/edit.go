package declaration

// ItemPatch carries one item edit from the presentation layer. Nil fields are
// left alone.
type ItemPatch struct {
	CountryOfOrigin  *string  `json:"countryOfOrigin,omitempty"`
	HSCode           *string  `json:"hsCode,omitempty"`
	DeclaredQty      *float64 `json:"declaredQty,omitempty"`
	DeclaredUOM      *string  `json:"declaredUOM,omitempty"`
	StatisticalQty   *float64 `json:"statisticalQty,omitempty"`
	StatisticalUOM   *string  `json:"statisticalUOM,omitempty"`
	ItemAmount       *float64 `json:"itemAmount,omitempty"`
	ItemDescription  *string  `json:"itemDescription,omitempty"`
	ItemDescription2 *string  `json:"itemDescription2,omitempty"`
	ItemDescription3 *string  `json:"itemDescription3,omitempty"`
	PackQty          *float64 `json:"packQty,omitempty"`
	PackUOM          *string  `json:"packUOM,omitempty"`
	ProductCode      *string  `json:"productCode,omitempty"`
	ExtraDescription *string  `json:"extraDescription,omitempty"`
}

// GeneralPatch carries header-field edits. Nil fields are left alone.
type GeneralPatch struct {
	InvoiceNumber    *string  `json:"invoiceNumber,omitempty"`
	InvoiceValue     *float64 `json:"invoiceValue,omitempty"`
	InvoiceDate      *string  `json:"invoiceDate,omitempty"`
	Incoterms        *string  `json:"incoterms,omitempty"`
	Currency         *string  `json:"currency,omitempty"`
	GrossWeight      *float64 `json:"grossWeight,omitempty"`
	NetWeight        *float64 `json:"netWeight,omitempty"`
	PackageCount     *float64 `json:"packageCount,omitempty"`
	Description      *string  `json:"description,omitempty"`
	ConsigneeName    *string  `json:"consigneeName,omitempty"`
	ConsigneeAddress *string  `json:"consigneeAddress,omitempty"`
	ConsigneeROBROC  *string  `json:"consigneeROBROC,omitempty"`
	ConsignorName    *string  `json:"consignorName,omitempty"`
	ConsignorAddress *string  `json:"consignorAddress,omitempty"`
	ConsignorROBROC  *string  `json:"consignorROBROC,omitempty"`
	VesselName       *string  `json:"vesselName,omitempty"`
	ArrivalDate      *string  `json:"arrivalDate,omitempty"`
}

// UpdateItem applies a patch to the item at index. An out-of-range index is
// rejected with IndexOutOfRangeError and leaves the list untouched. Direct
// unit/quantity edits are routed back through the canonicalization adapter so
// the retained entry list stays consistent with what the table shows.
func (c *CanonicalData) UpdateItem(index int, patch ItemPatch) error {
	if index < 0 || index >= len(c.JobCargo.Items) {
		return &IndexOutOfRangeError{Index: index, Length: len(c.JobCargo.Items)}
	}
	item := &c.JobCargo.Items[index]

	if patch.CountryOfOrigin != nil {
		item.CountryOfOrigin = *patch.CountryOfOrigin
	}
	if patch.HSCode != nil {
		item.HSCode = *patch.HSCode
	}
	if patch.DeclaredQty != nil {
		item.DeclaredQty = *patch.DeclaredQty
	}
	if patch.DeclaredUOM != nil {
		item.DeclaredUOM = *patch.DeclaredUOM
	}
	if patch.StatisticalQty != nil {
		item.StatisticalQty = *patch.StatisticalQty
	}
	if patch.StatisticalUOM != nil {
		item.StatisticalUOM = *patch.StatisticalUOM
	}
	if patch.ItemAmount != nil {
		item.ItemAmount = *patch.ItemAmount
	}
	if patch.ItemDescription != nil {
		item.ItemDescription = *patch.ItemDescription
	}
	if patch.ItemDescription2 != nil {
		item.ItemDescription2 = *patch.ItemDescription2
	}
	if patch.ItemDescription3 != nil {
		item.ItemDescription3 = *patch.ItemDescription3
	}
	if patch.PackQty != nil {
		item.PackQty = patch.PackQty
	}
	if patch.PackUOM != nil {
		item.PackUOM = patch.PackUOM
	}
	if patch.ProductCode != nil {
		item.ProductCode = *patch.ProductCode
	}
	if patch.ExtraDescription != nil {
		item.ExtraDescription = *patch.ExtraDescription
	}

	if patch.StatisticalQty != nil || patch.StatisticalUOM != nil {
		// A user-supplied quantity no longer carries the extraction model's
		// confidence.
		if patch.StatisticalQty != nil {
			item.StatisticalQtyConfidence = nil
		}
		canonical := WithCanonicalFromUIValues(
			QuantityCanonical{DataEntries: item.StatisticalEntries},
			item.StatisticalUOM, item.StatisticalQty, item.StatisticalQtyConfidence,
		)
		item.StatisticalEntries = canonical.DataEntries
	}

	return nil
}

// UpdateGeneral applies header-field edits.
func (c *CanonicalData) UpdateGeneral(patch GeneralPatch) {
	g := &c.GeneralInformation

	if patch.InvoiceNumber != nil {
		g.InvoiceNumber = *patch.InvoiceNumber
	}
	if patch.InvoiceValue != nil {
		g.InvoiceValue = *patch.InvoiceValue
	}
	if patch.InvoiceDate != nil {
		g.InvoiceDate = *patch.InvoiceDate
	}
	if patch.Incoterms != nil {
		g.Incoterms = *patch.Incoterms
	}
	if patch.Currency != nil {
		g.Currency = *patch.Currency
	}
	if patch.GrossWeight != nil {
		g.GrossWeight = *patch.GrossWeight
	}
	if patch.NetWeight != nil {
		g.NetWeight = *patch.NetWeight
	}
	if patch.PackageCount != nil {
		g.PackageCount = *patch.PackageCount
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.ConsigneeName != nil {
		g.ConsigneeName = *patch.ConsigneeName
	}
	if patch.ConsigneeAddress != nil {
		g.ConsigneeAddress = *patch.ConsigneeAddress
	}
	if patch.ConsigneeROBROC != nil {
		g.ConsigneeROBROC = *patch.ConsigneeROBROC
	}
	if patch.ConsignorName != nil {
		g.ConsignorName = *patch.ConsignorName
	}
	if patch.ConsignorAddress != nil {
		g.ConsignorAddress = *patch.ConsignorAddress
	}
	if patch.ConsignorROBROC != nil {
		g.ConsignorROBROC = *patch.ConsignorROBROC
	}
	if patch.VesselName != nil {
		g.VesselName = *patch.VesselName
	}
	if patch.ArrivalDate != nil {
		g.ArrivalDate = *patch.ArrivalDate
	}
}
