package models

// EthyleneSensitivity records ethylene production and sensitivity class at a
// given storage temperature.
type EthyleneSensitivity struct {
	ID             int64    `json:"id"`
	CommodityID    string   `json:"commodityId"`
	Temperature    *float64 `json:"temperature"`
	C2H4Production *string  `json:"c2h4Production"`
	C2H4Class      *string  `json:"c2h4Class"`
}

// RespirationRate records the respiration rate (mg CO2/kg·hr) at a temperature.
type RespirationRate struct {
	ID                 int64    `json:"id"`
	CommodityID        string   `json:"commodityId"`
	TemperatureCelsius *float64 `json:"temperatureCelsius"`
	RespirationRate    *string  `json:"respirationRate"`
	RespirationClass   *string  `json:"respirationClass"`
}

// ShelfLife records expected storage life under given conditions.
type ShelfLife struct {
	ID                 int64    `json:"id"`
	CommodityID        string   `json:"commodityId"`
	TemperatureCelsius *float64 `json:"temperatureCelsius"`
	ShelfLife          *string  `json:"shelfLife"`
	Packaging          *string  `json:"packaging"`
	RelativeHumidity   *string  `json:"relativeHumidity"`
	Description        *string  `json:"description"`
}

// TemperatureRecommendation is a recommended storage temperature range.
type TemperatureRecommendation struct {
	ID                    int64    `json:"id"`
	CommodityID           string   `json:"commodityId"`
	MinTemperatureCelsius *float64 `json:"minTemperatureCelsius"`
	MaxTemperatureCelsius *float64 `json:"maxTemperatureCelsius"`
	RelativeHumidity      *string  `json:"relativeHumidity"`
	Description           *string  `json:"description"`
}

// Reference is a bibliographic source for a commodity's data.
type Reference struct {
	ID          int64  `json:"id"`
	CommodityID string `json:"commodityId"`
	Source      string `json:"source"`
}
