package pricing

import "github.com/shopspring/decimal"

// RawSkipRecord is one entry of the pricing-by-location response.
type RawSkipRecord struct {
	ID               int64               `json:"id"`
	Size             int                 `json:"size"`
	HirePeriodDays   int                 `json:"hire_period_days"`
	PriceBeforeVAT   decimal.Decimal     `json:"price_before_vat"`
	VAT              decimal.Decimal     `json:"vat"`
	TransportCost    decimal.NullDecimal `json:"transport_cost"`
	PerTonneCost     decimal.NullDecimal `json:"per_tonne_cost"`
	AllowedOnRoad    bool                `json:"allowed_on_road"`
	AllowsHeavyWaste bool                `json:"allows_heavy_waste"`
}

// Location is the fixed postcode/area the page prices skips for.
type Location struct {
	Postcode string
	Area     string
}
