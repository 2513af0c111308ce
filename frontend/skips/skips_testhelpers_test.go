package skips

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"skiphire/infrastructure/pricing"
)

const testImageBase = "https://img.example.test/skips"

type fakeSource struct {
	records []pricing.RawSkipRecord
	err     error
	calls   atomic.Int32
}

func (f *fakeSource) FetchSkips(_ context.Context) ([]pricing.RawSkipRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// blockingSource holds every fetch until release is closed.
type blockingSource struct {
	release <-chan struct{}
	records []pricing.RawSkipRecord
}

func (b *blockingSource) FetchSkips(ctx context.Context) ([]pricing.RawSkipRecord, error) {
	select {
	case <-b.release:
		return b.records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func rawSkip(id int64, size int, price, vat string, road, heavy bool) pricing.RawSkipRecord {
	return pricing.RawSkipRecord{
		ID:               id,
		Size:             size,
		HirePeriodDays:   14,
		PriceBeforeVAT:   decimal.RequireFromString(price),
		VAT:              decimal.RequireFromString(vat),
		AllowedOnRoad:    road,
		AllowsHeavyWaste: heavy,
	}
}

// sampleRecords mixes flags and includes equal sizes and equal final prices.
func sampleRecords() []pricing.RawSkipRecord {
	return []pricing.RawSkipRecord{
		rawSkip(11, 8, "300", "20", true, false),
		rawSkip(12, 4, "200", "20", true, true),
		rawSkip(13, 6, "250", "20", false, true),
		rawSkip(14, 4, "150", "20", false, false),
		rawSkip(15, 6, "200", "20", true, false),
	}
}

func readyPage(records []pricing.RawSkipRecord) *Page {
	p := NewPage()
	if _, err := p.Load(context.Background(), &fakeSource{records: records}, testImageBase); err != nil {
		panic(err)
	}
	return p
}

func ids(list []SkipViewModel) []int64 {
	out := make([]int64, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func decimalNull(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}
