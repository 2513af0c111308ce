package skips

import (
	"fmt"

	"github.com/shopspring/decimal"

	"skiphire/infrastructure/pricing"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

var capacityBySize = map[int]CapacityInfo{
	4:  {BinBags: "30-35", Description: "Small bathroom renovation"},
	6:  {BinBags: "45-50", Description: "Kitchen renovation"},
	8:  {BinBags: "60-65", Description: "Large house clearance"},
	10: {BinBags: "75-80", Description: "Garden landscaping"},
	12: {BinBags: "90-95", Description: "Major renovation"},
	14: {BinBags: "105-110", Description: "Construction project"},
	16: {BinBags: "120-125", Description: "Large construction"},
	20: {BinBags: "150+", Description: "Commercial project"},
	40: {BinBags: "300+", Description: "Major commercial work"},
}

var unknownCapacity = CapacityInfo{BinBags: "N/A", Description: "Various projects"}

// LookupCapacity returns the bin-bag estimate for size, or the placeholder.
func LookupCapacity(size int) CapacityInfo {
	if c, ok := capacityBySize[size]; ok {
		return c
	}
	return unknownCapacity
}

// ImageURL derives the skip photo location. The file is not checked for existence.
func ImageURL(baseURL string, size int) string {
	return fmt.Sprintf("%s/%d-yarder-skip.jpg", baseURL, size)
}

// FinalPrice is round(preVAT * (1 + vat/100)).
func FinalPrice(preVAT, vatRate decimal.Decimal) decimal.Decimal {
	return preVAT.Mul(one.Add(vatRate.Div(hundred))).Round(0)
}

// VATAmount is round(preVAT * vat/100). It is rounded on its own, so
// round(preVAT) + VATAmount can differ from FinalPrice by one unit.
func VATAmount(preVAT, vatRate decimal.Decimal) decimal.Decimal {
	return preVAT.Mul(vatRate.Div(hundred)).Round(0)
}

// Transform maps an API record to its view model.
func Transform(raw pricing.RawSkipRecord, imageBaseURL string) SkipViewModel {
	final := FinalPrice(raw.PriceBeforeVAT, raw.VAT)

	return SkipViewModel{
		ID:                  raw.ID,
		Size:                raw.Size,
		SizeLabel:           fmt.Sprintf("%d Yards", raw.Size),
		Period:              fmt.Sprintf("%d day hire period", raw.HirePeriodDays),
		HirePeriodDays:      raw.HirePeriodDays,
		DaysLabel:           daysLabel(raw.HirePeriodDays),
		Price:               pounds(final),
		PriceNumeric:        final.IntPart(),
		PriceBeforeVAT:      pounds(raw.PriceBeforeVAT.Round(0)),
		VATAmount:           pounds(VATAmount(raw.PriceBeforeVAT, raw.VAT)),
		VATRate:             raw.VAT,
		TransportCost:       raw.TransportCost,
		PerTonneCost:        raw.PerTonneCost,
		HasTransportPricing: present(raw.TransportCost) && present(raw.PerTonneCost),
		ImageURL:            ImageURL(imageBaseURL, raw.Size),
		RoadLegal:           raw.AllowedOnRoad,
		HeavyWasteSuitable:  raw.AllowsHeavyWaste,
		Capacity:            LookupCapacity(raw.Size),
	}
}

// TransformAll keeps the API order.
func TransformAll(raw []pricing.RawSkipRecord, imageBaseURL string) []SkipViewModel {
	out := make([]SkipViewModel, 0, len(raw))
	for _, r := range raw {
		out = append(out, Transform(r, imageBaseURL))
	}
	return out
}

func pounds(d decimal.Decimal) string {
	return "£" + d.String()
}

func present(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}

func daysLabel(days int) string {
	if days == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", days)
}

// TransportLabel and PerTonneLabel render the alternative transport + disposal pricing.
func (s SkipViewModel) TransportLabel() string {
	return pounds(s.TransportCost.Decimal)
}

func (s SkipViewModel) PerTonneLabel() string {
	return pounds(s.PerTonneCost.Decimal) + "/tonne"
}
