package declaration

// TemplateType identifies which backend extraction template produced a payload.
// Both families are live data producers and are supported indefinitely.
type TemplateType string

const (
	TemplateALDEC   TemplateType = "ALDEC"
	TemplateSEALNET TemplateType = "SEALNET"
)

// StatisticalUOM is one unit-of-measure entry on a cargo item. Items may carry
// several of these when the extraction model found more than one unit.
type StatisticalUOM struct {
	UOM        string   `json:"UOM"`
	Quantity   float64  `json:"quantity"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// GeneralInformation holds the flattened header fields of a document group.
// Every scalar field has an optional sibling confidence score; a nil
// confidence means the extraction model attached no score, which is distinct
// from a low score.
type GeneralInformation struct {
	InvoiceNumber           string   `json:"invoiceNumber"`
	InvoiceNumberConfidence *float64 `json:"invoiceNumber_confidence,omitempty"`
	InvoiceValue            float64  `json:"invoiceValue"`
	InvoiceValueConfidence  *float64 `json:"invoiceValue_confidence,omitempty"`
	InvoiceDate             string   `json:"invoiceDate"`
	InvoiceDateConfidence   *float64 `json:"invoiceDate_confidence,omitempty"`
	Incoterms               string   `json:"incoterms"`
	IncotermsConfidence     *float64 `json:"incoterms_confidence,omitempty"`
	Currency                string   `json:"currency"`
	CurrencyConfidence      *float64 `json:"currency_confidence,omitempty"`
	GrossWeight             float64  `json:"grossWeight"`
	GrossWeightConfidence   *float64 `json:"grossWeight_confidence,omitempty"`
	NetWeight               float64  `json:"netWeight"`
	NetWeightConfidence     *float64 `json:"netWeight_confidence,omitempty"`
	PackageCount            float64  `json:"packageCount"`
	PackageCountConfidence  *float64 `json:"packageCount_confidence,omitempty"`
	Description             string   `json:"description"`
	DescriptionConfidence   *float64 `json:"description_confidence,omitempty"`

	ConsigneeName              string   `json:"consigneeName"`
	ConsigneeNameConfidence    *float64 `json:"consigneeName_confidence,omitempty"`
	ConsigneeAddress           string   `json:"consigneeAddress"`
	ConsigneeAddressConfidence *float64 `json:"consigneeAddress_confidence,omitempty"`
	ConsigneeROBROC            string   `json:"consigneeROBROC"`
	ConsigneeROBROCConfidence  *float64 `json:"consigneeROBROC_confidence,omitempty"`
	ConsignorName              string   `json:"consignorName"`
	ConsignorNameConfidence    *float64 `json:"consignorName_confidence,omitempty"`
	ConsignorAddress           string   `json:"consignorAddress"`
	ConsignorAddressConfidence *float64 `json:"consignorAddress_confidence,omitempty"`
	ConsignorROBROC            string   `json:"consignorROBROC"`
	ConsignorROBROCConfidence  *float64 `json:"consignorROBROC_confidence,omitempty"`

	// SEALNET documents carry vessel and arrival details; empty for ALDEC.
	VesselName            string   `json:"vesselName,omitempty"`
	VesselNameConfidence  *float64 `json:"vesselName_confidence,omitempty"`
	ArrivalDate           string   `json:"arrivalDate,omitempty"`
	ArrivalDateConfidence *float64 `json:"arrivalDate_confidence,omitempty"`
}

// JobCargoItem is one flattened cargo line, regardless of which template shape
// it came from. ID encodes "<sourceDataIndex>-<sourceItemIndex>" so edits can
// be reconciled back to the correct raw-payload slot even after the list has
// been filtered or reordered client-side.
type JobCargoItem struct {
	ID              string `json:"id"`
	SourceDataIndex int    `json:"sourceDataIndex"`
	SourceItemIndex int    `json:"sourceItemIndex"`

	CountryOfOrigin           string   `json:"countryOfOrigin"`
	CountryOfOriginConfidence *float64 `json:"countryOfOrigin_confidence,omitempty"`
	HSCode                    string   `json:"hsCode"`
	HSCodeConfidence          *float64 `json:"hsCode_confidence,omitempty"`

	DeclaredQty           float64  `json:"declaredQty"`
	DeclaredQtyConfidence *float64 `json:"declaredQty_confidence,omitempty"`
	DeclaredUOM           string   `json:"declaredUOM"`
	DeclaredUOMConfidence *float64 `json:"declaredUOM_confidence,omitempty"`

	// StatisticalUOM is the single display unit projected from
	// StatisticalEntries; the full entry list is retained so re-serialization
	// does not destroy entries the display collapsed.
	StatisticalUOM           string   `json:"statisticalUOM"`
	StatisticalUOMConfidence *float64 `json:"statisticalUOM_confidence,omitempty"`
	StatisticalQty           float64  `json:"statisticalQty"`
	StatisticalQtyConfidence *float64 `json:"statisticalQty_confidence,omitempty"`

	ItemAmount           float64  `json:"itemAmount"`
	ItemAmountConfidence *float64 `json:"itemAmount_confidence,omitempty"`

	ItemDescription            string   `json:"itemDescription"`
	ItemDescriptionConfidence  *float64 `json:"itemDescription_confidence,omitempty"`
	ItemDescription2           string   `json:"itemDescription2"`
	ItemDescription2Confidence *float64 `json:"itemDescription2_confidence,omitempty"`
	ItemDescription3           string   `json:"itemDescription3"`
	ItemDescription3Confidence *float64 `json:"itemDescription3_confidence,omitempty"`

	// K9 pack fields. Pointers so non-K9 exports omit them entirely rather
	// than writing zeroes.
	PackQty *float64 `json:"packQty,omitempty"`
	PackUOM *string  `json:"packUOM,omitempty"`

	// SEALNET-only extensions.
	ProductCode        string           `json:"productCode,omitempty"`
	ExtraDescription   string           `json:"extraDescription,omitempty"`
	StatisticalEntries []StatisticalUOM `json:"statisticalEntries,omitempty"`
	StatisticalDetails string           `json:"statisticalDetails,omitempty"`
}

// JobCargo wraps the flattened item list.
type JobCargo struct {
	Items []JobCargoItem `json:"items"`
}

// CanonicalData is the single in-memory shape the UI edits. It is created
// fresh per preview, mutated during the editing session, and round-tripped
// back through Serialize when the user saves.
type CanonicalData struct {
	TemplateType       TemplateType       `json:"templateType"`
	GeneralInformation GeneralInformation `json:"generalInformation"`
	JobCargo           JobCargo           `json:"jobCargo"`

	// RawEntries keeps the original payload entries so the SEALNET
	// serializer can clone-then-patch, preserving fields the UI never
	// displays.
	RawEntries []map[string]any `json:"rawEntries,omitempty"`
}
