package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleBody = `[
  {"id": 17933, "size": 4, "hire_period_days": 14, "transport_cost": null, "per_tonne_cost": null,
   "price_before_vat": 278, "vat": 20, "allowed_on_road": true, "allows_heavy_waste": true},
  {"id": 17934, "size": 6, "hire_period_days": 14, "transport_cost": 120, "per_tonne_cost": 45.5,
   "price_before_vat": 305, "vat": 20, "allowed_on_road": false, "allows_heavy_waste": false}
]`

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var got http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestFetchSkips_DecodesArray(t *testing.T) {
	srv, got := newUpstream(t, http.StatusOK, sampleBody)
	c := NewClient(srv.URL, Location{Postcode: "NR32", Area: "Lowestoft"}, time.Second)

	records, err := c.FetchSkips(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got.URL.Path != "/api/skips/by-location" {
		t.Fatalf("unexpected path %q", got.URL.Path)
	}
	if got.URL.Query().Get("postcode") != "NR32" || got.URL.Query().Get("area") != "Lowestoft" {
		t.Fatalf("unexpected query %q", got.URL.RawQuery)
	}
	if got.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", got.Method)
	}

	first := records[0]
	if first.ID != 17933 || first.Size != 4 || first.HirePeriodDays != 14 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.TransportCost.Valid || first.PerTonneCost.Valid {
		t.Fatalf("expected null costs to be invalid: %+v", first)
	}
	second := records[1]
	if !second.TransportCost.Valid || second.TransportCost.Decimal.String() != "120" {
		t.Fatalf("unexpected transport cost: %+v", second.TransportCost)
	}
	if second.PerTonneCost.Decimal.String() != "45.5" {
		t.Fatalf("unexpected per tonne cost: %+v", second.PerTonneCost)
	}
	if second.AllowedOnRoad || second.AllowsHeavyWaste {
		t.Fatalf("expected flags false: %+v", second)
	}
}

func TestFetchSkips_NonSuccessStatusIsFetchFailure(t *testing.T) {
	srv, _ := newUpstream(t, http.StatusInternalServerError, `{"error":"boom"}`)
	c := NewClient(srv.URL, Location{Postcode: "NR32", Area: "Lowestoft"}, time.Second)

	records, err := c.FetchSkips(context.Background())
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records on failure")
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", StatusCode(err))
	}
	var ue *UnexpectedError
	if errors.As(err, &ue) {
		t.Fatalf("status failure must not be an UnexpectedError")
	}
}

func TestFetchSkips_MalformedJSONIsUnexpected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated array", `[{"id": 1,`},
		{"object instead of array", `{"skips": []}`},
		{"empty body", ``},
		{"wrong field type", `[{"id": "x"}]`},
		{"null record", `[null]`},
		{"null among records", `[null,{"id":2,"size":6,"hire_period_days":14,"price_before_vat":305,"vat":20}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newUpstream(t, http.StatusOK, tt.body)
			c := NewClient(srv.URL, Location{Postcode: "NR32", Area: "Lowestoft"}, time.Second)

			_, err := c.FetchSkips(context.Background())
			var ue *UnexpectedError
			if !errors.As(err, &ue) {
				t.Fatalf("expected UnexpectedError, got %v", err)
			}
			if ue.Op != "decode" {
				t.Fatalf("expected decode op, got %q", ue.Op)
			}
			if errors.Is(err, ErrFetchFailed) {
				t.Fatalf("decode failure must not match ErrFetchFailed")
			}
		})
	}
}

func TestFetchSkips_CancelledContext(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", Location{Postcode: "NR32", Area: "Lowestoft"}, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchSkips(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	c := NewClient("https://app.example.test/", Location{Postcode: "NR32", Area: "Lowestoft"}, 0)
	want := "https://app.example.test/api/skips/by-location?area=Lowestoft&postcode=NR32"
	if got := c.Endpoint(); got != want {
		t.Fatalf("endpoint = %q, want %q", got, want)
	}
}
