package models

// Commodity is a produce item (species and variety) tracked for post-harvest
// handling guidance. ID is derived from name and variety when not supplied
// and never changes after creation.
type Commodity struct {
	ID             string  `json:"id"`
	CommodityName  string  `json:"commodityName"`
	Variety        *string `json:"variety"`
	ScientificName *string `json:"scientificName"`
	CoolingMethod  *string `json:"coolingMethod"`
	Climacteric    *bool   `json:"climacteric"`
}

// VarietyOrEmpty returns the variety, or "" when unset.
func (c *Commodity) VarietyOrEmpty() string {
	if c.Variety == nil {
		return ""
	}
	return *c.Variety
}

// CommodityFilter narrows a commodity listing.
type CommodityFilter struct {
	// CommodityName matches as a case-insensitive substring when non-empty.
	CommodityName string
}

// CommodityDetail is a commodity together with every related record.
// Collections are always non-nil so they serialize as [] rather than null.
type CommodityDetail struct {
	Commodity
	EthyleneSensitivity        []*EthyleneSensitivity       `json:"ethyleneSensitivity"`
	RespirationRates           []*RespirationRate           `json:"respirationRates"`
	ShelfLife                  []*ShelfLife                 `json:"shelfLife"`
	TemperatureRecommendations []*TemperatureRecommendation `json:"temperatureRecommendations"`
	References                 []*Reference                 `json:"references"`
	Studies                    []*Study                     `json:"studies"`
}

// NewCommodityDetail wraps c with empty collections.
func NewCommodityDetail(c *Commodity) *CommodityDetail {
	return &CommodityDetail{
		Commodity:                  *c,
		EthyleneSensitivity:        []*EthyleneSensitivity{},
		RespirationRates:           []*RespirationRate{},
		ShelfLife:                  []*ShelfLife{},
		TemperatureRecommendations: []*TemperatureRecommendation{},
		References:                 []*Reference{},
		Studies:                    []*Study{},
	}
}
