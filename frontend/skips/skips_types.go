package skips

import "github.com/shopspring/decimal"

func init() {
	// Rates and optional costs go out as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the page lifecycle: loading, then error or ready.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// SortKey orders the displayed list.
type SortKey string

const (
	SortBySize  SortKey = "size"
	SortByPrice SortKey = "price"
)

type CapacityInfo struct {
	BinBags     string `json:"binBags"`
	Description string `json:"description"`
}

// SkipViewModel is a display-ready skip. It is never modified after Transform builds it.
type SkipViewModel struct {
	ID                  int64               `json:"id"`
	Size                int                 `json:"size"`
	SizeLabel           string              `json:"sizeLabel"`
	Period              string              `json:"period"`
	HirePeriodDays      int                 `json:"hirePeriodDays"`
	DaysLabel           string              `json:"daysLabel"`
	Price               string              `json:"price"`
	PriceNumeric        int64               `json:"priceNumeric"`
	PriceBeforeVAT      string              `json:"priceBeforeVat"`
	VATAmount           string              `json:"vatAmount"`
	VATRate             decimal.Decimal     `json:"vatRate"`
	TransportCost       decimal.NullDecimal `json:"transportCost"`
	PerTonneCost        decimal.NullDecimal `json:"perTonneCost"`
	HasTransportPricing bool                `json:"hasTransportPricing"`
	ImageURL            string              `json:"image"`
	RoadLegal           bool                `json:"roadLegal"`
	HeavyWasteSuitable  bool                `json:"heavyWasteSuitable"`
	Capacity            CapacityInfo        `json:"capacityInfo"`
}

// FilterState holds the two filter toggles and the sort key.
type FilterState struct {
	RoadLegalOnly  bool    `json:"roadLegalOnly"`
	HeavyWasteOnly bool    `json:"heavyWasteOnly"`
	SortBy         SortKey `json:"sortBy"`
}

// PageState is the serializable part of a page.
type PageState struct {
	Status       Status      `json:"status"`
	Filters      FilterState `json:"filters"`
	SelectedID   int64       `json:"selectedId,omitempty"`
	HasSelection bool        `json:"hasSelection"`
	HelpOpen     bool        `json:"helpOpen"`
}

type ProgressStep struct {
	ID        int
	Label     string
	Completed bool
	Active    bool
}

type HelpGuideEntry struct {
	Title string
	Body  string
}

// PageData is an immutable snapshot handed to views and exports.
type PageData struct {
	PageState
	Loading  bool
	Error    string
	Message  string
	Total    int
	Skips    []SkipViewModel
	Selected SkipViewModel
	Steps    []ProgressStep
	Guide    []HelpGuideEntry
}

// ShowCount reports whether the "Showing N of M" summary is visible.
func (d PageData) ShowCount() bool {
	return d.Filters.Active()
}

func (d PageData) IsSelected(id int64) bool {
	return d.HasSelection && d.SelectedID == id
}

var checkoutSteps = []ProgressStep{
	{ID: 1, Label: "Postcode", Completed: true},
	{ID: 2, Label: "Waste Type", Completed: true},
	{ID: 3, Label: "Select Skip", Active: true},
	{ID: 4, Label: "Permit Check"},
	{ID: 5, Label: "Choose Date"},
	{ID: 6, Label: "Payment"},
}

var sizeGuide = []HelpGuideEntry{
	{Title: "Small Projects (4-6 yards)", Body: "Bathroom renovation, small clearance, garden tidy"},
	{Title: "Medium Projects (8-10 yards)", Body: "Kitchen renovation, house clearance, landscaping"},
	{Title: "Large Projects (12+ yards)", Body: "Construction work, major renovations, commercial projects"},
}
