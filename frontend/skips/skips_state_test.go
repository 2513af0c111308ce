package skips

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"skiphire/infrastructure/pricing"
)

func TestPageLoad_Ready(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	p := NewPage()
	if got := p.Snapshot(); !got.Loading || got.Status != StatusLoading {
		t.Fatalf("expected new page to be loading, got %+v", got.PageState)
	}

	fetched, err := p.Load(context.Background(), src, testImageBase)
	if err != nil || !fetched {
		t.Fatalf("expected fetch to succeed, fetched=%v err=%v", fetched, err)
	}
	data := p.Snapshot()
	if data.Loading || data.Status != StatusReady {
		t.Fatalf("expected ready page, got %+v", data.PageState)
	}
	if data.Total != 5 || len(data.Skips) != 5 {
		t.Fatalf("expected 5 skips, got total=%d displayed=%d", data.Total, len(data.Skips))
	}
}

func TestPageStart_RunsInBackground(t *testing.T) {
	release := make(chan struct{})
	p := NewPage()

	var gotErr error
	done := make(chan struct{})
	src := &blockingSource{release: release, records: sampleRecords()}
	if !p.Start(context.Background(), src, testImageBase, func(err error) { gotErr = err; close(done) }) {
		t.Fatalf("expected first Start to launch the fetch")
	}
	if p.Start(context.Background(), src, testImageBase, nil) {
		t.Fatalf("expected second Start to be a no-op")
	}
	if fetched, _ := p.Load(context.Background(), src, testImageBase); fetched {
		t.Fatalf("expected Load after Start to be a no-op")
	}
	if data := p.Snapshot(); !data.Loading {
		t.Fatalf("expected page to stay loading while the fetch is held")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected Wait to time out while loading, got %v", err)
	}

	close(release)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	<-done
	if gotErr != nil {
		t.Fatalf("unexpected fetch error %v", gotErr)
	}
	if data := p.Snapshot(); data.Status != StatusReady || data.Total != 5 {
		t.Fatalf("expected ready page with 5 skips, got %+v", data.PageState)
	}
}

func TestPageLoad_FetchFailureShowsErrorWithoutList(t *testing.T) {
	src := &fakeSource{err: &pricing.StatusError{Code: 500}}
	p := NewPage()

	fetched, err := p.Load(context.Background(), src, testImageBase)
	if !fetched || !errors.Is(err, pricing.ErrFetchFailed) {
		t.Fatalf("expected fetch failure, fetched=%v err=%v", fetched, err)
	}
	data := p.Snapshot()
	if data.Loading {
		t.Fatalf("expected loading to end after failure")
	}
	if data.Status != StatusError || data.Error != "Failed to load skip options" {
		t.Fatalf("expected error state, got %+v", data)
	}
	if len(data.Skips) != 0 {
		t.Fatalf("expected no displayed list, got %d skips", len(data.Skips))
	}
	if err := p.Select(11); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady from failed page, got %v", err)
	}
	if p.ErrorText() == "" {
		t.Fatalf("expected underlying error to be kept for logs")
	}
}

func TestPageLoad_UnexpectedErrorSharesErrorState(t *testing.T) {
	src := &fakeSource{err: &pricing.UnexpectedError{Op: "decode", Err: errors.New("bad json")}}
	p := NewPage()
	if _, err := p.Load(context.Background(), src, testImageBase); err == nil {
		t.Fatalf("expected error")
	}
	if p.State().Status != StatusError {
		t.Fatalf("expected error status, got %s", p.State().Status)
	}
}

func TestPageLoad_FetchesOnce(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	p := NewPage()

	var wg sync.WaitGroup
	var mu sync.Mutex
	fetchedCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, _ := p.Load(context.Background(), src, testImageBase)
			if fetched {
				mu.Lock()
				fetchedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	if fetchedCount != 1 {
		t.Fatalf("expected exactly one caller to report a fetch, got %d", fetchedCount)
	}
}

func TestPageSelect_ReplacesPrevious(t *testing.T) {
	p := readyPage(sampleRecords())

	if err := p.Select(11); err != nil {
		t.Fatalf("select A: %v", err)
	}
	if err := p.Select(13); err != nil {
		t.Fatalf("select B: %v", err)
	}

	data := p.Snapshot()
	if !data.HasSelection || data.SelectedID != 13 {
		t.Fatalf("expected only B selected, got %+v", data.PageState)
	}
	selectedCount := 0
	for _, s := range data.Skips {
		if data.IsSelected(s.ID) {
			selectedCount++
		}
	}
	if selectedCount != 1 {
		t.Fatalf("expected exactly one selected card, got %d", selectedCount)
	}
}

func TestPageSelect_UnknownID(t *testing.T) {
	p := readyPage(sampleRecords())
	if err := p.Select(999); !errors.Is(err, ErrUnknownSkip) {
		t.Fatalf("expected ErrUnknownSkip, got %v", err)
	}
	if p.State().HasSelection {
		t.Fatalf("expected no selection after unknown id")
	}
}

func TestPageSelect_SurvivesFilteringOut(t *testing.T) {
	p := readyPage(sampleRecords())
	if err := p.Select(14); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := p.SetFilters(FilterState{RoadLegalOnly: true}); err != nil {
		t.Fatalf("set filters: %v", err)
	}

	data := p.Snapshot()
	for _, s := range data.Skips {
		if s.ID == 14 {
			t.Fatalf("expected skip 14 to be filtered out")
		}
	}
	if !data.HasSelection || data.Selected.ID != 14 {
		t.Fatalf("expected hidden selection to persist, got %+v", data.PageState)
	}

	// A hidden skip can still be selected; selection is checked against the full list.
	if err := p.Select(13); err != nil {
		t.Fatalf("expected hidden skip to be selectable, got %v", err)
	}
}

func TestPageResetFilters_FromEmptyState(t *testing.T) {
	p := readyPage([]pricing.RawSkipRecord{
		rawSkip(1, 4, "100", "20", true, false),
		rawSkip(2, 6, "150", "20", false, true),
	})
	if err := p.SetFilters(FilterState{RoadLegalOnly: true, HeavyWasteOnly: true, SortBy: SortByPrice}); err != nil {
		t.Fatalf("set filters: %v", err)
	}
	data := p.Snapshot()
	if len(data.Skips) != 0 || !data.ShowCount() {
		t.Fatalf("expected empty filtered list with count summary, got %d skips", len(data.Skips))
	}

	if err := p.ResetFilters(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	data = p.Snapshot()
	if data.Filters.RoadLegalOnly || data.Filters.HeavyWasteOnly {
		t.Fatalf("expected both flags cleared, got %+v", data.Filters)
	}
	if data.Filters.SortBy != SortByPrice {
		t.Fatalf("expected sort key to be kept, got %q", data.Filters.SortBy)
	}
	if !reflect.DeepEqual(ids(data.Skips), []int64{1, 2}) {
		t.Fatalf("expected full list back, got %v", ids(data.Skips))
	}
}

func TestPageSetFilters_NormalizesSortKey(t *testing.T) {
	p := readyPage(sampleRecords())
	if err := p.SetFilters(FilterState{SortBy: "bogus"}); err != nil {
		t.Fatalf("set filters: %v", err)
	}
	if got := p.State().Filters.SortBy; got != SortBySize {
		t.Fatalf("expected size sort, got %q", got)
	}
}

func TestPageMutationsRequireReady(t *testing.T) {
	p := NewPage()
	if err := p.SetFilters(FilterState{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if err := p.ResetFilters(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, ok := p.Selected(); ok {
		t.Fatalf("expected no selection on loading page")
	}
}

func TestPageToggleHelp(t *testing.T) {
	p := readyPage(sampleRecords())
	if !p.ToggleHelp() || !p.Snapshot().HelpOpen {
		t.Fatalf("expected help to open")
	}
	if p.ToggleHelp() {
		t.Fatalf("expected help to close")
	}
	p.SetHelp(true)
	if !p.State().HelpOpen {
		t.Fatalf("expected SetHelp(true) to open help")
	}
}

func TestPageSnapshotIsACopy(t *testing.T) {
	p := readyPage(sampleRecords())
	data := p.Snapshot()
	data.Skips[0].Price = "changed"
	if p.Snapshot().Skips[0].Price == "changed" {
		t.Fatalf("expected snapshot to be detached from page state")
	}
}
