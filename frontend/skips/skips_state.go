package skips

import (
	"context"
	"errors"
	"sync"

	"skiphire/infrastructure/pricing"
)

var (
	ErrNotReady    = errors.New("skip list is not loaded")
	ErrUnknownSkip = errors.New("skip not found")
)

const loadFailedMessage = "Failed to load skip options"

// Page owns the state of one skip selection page. The full list is set once
// by Load; every other mutation recomputes the displayed list from it.
type Page struct {
	mu sync.Mutex

	started   bool
	loaded    chan struct{}
	state     PageState
	errText   string
	full      []SkipViewModel
	displayed []SkipViewModel
}

func NewPage() *Page {
	return &Page{
		loaded: make(chan struct{}),
		state: PageState{
			Status:  StatusLoading,
			Filters: FilterState{SortBy: SortBySize},
		},
	}
}

// Load fetches and transforms the skip list. Only the first call does any
// work; fetched is false for every later call. A failed fetch leaves the page
// in StatusError until it is replaced by a new Page.
func (p *Page) Load(ctx context.Context, src pricing.Source, imageBaseURL string) (fetched bool, err error) {
	if !p.claim() {
		return false, nil
	}
	defer close(p.loaded)
	return true, p.fetch(ctx, src, imageBaseURL)
}

// Start runs the fetch in the background and returns at once, leaving the
// page in StatusLoading. It reports whether this call launched the fetch.
// onDone, if set, runs with the fetch result before Wait is released.
func (p *Page) Start(ctx context.Context, src pricing.Source, imageBaseURL string, onDone func(error)) bool {
	if !p.claim() {
		return false
	}
	go func() {
		defer close(p.loaded)
		err := p.fetch(ctx, src, imageBaseURL)
		if onDone != nil {
			onDone(err)
		}
	}()
	return true
}

// Wait blocks until the fetch has finished or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Page) claim() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return false
	}
	p.started = true
	return true
}

func (p *Page) fetch(ctx context.Context, src pricing.Source, imageBaseURL string) error {
	raw, err := src.FetchSkips(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.Status = StatusError
		p.errText = err.Error()
		return err
	}
	p.full = TransformAll(raw, imageBaseURL)
	p.state.Status = StatusReady
	p.recompute()
	return nil
}

// Select makes id the only selected skip. The id must be in the full list;
// it does not have to be visible under the current filters.
func (p *Page) Select(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Status != StatusReady {
		return ErrNotReady
	}
	if _, ok := p.find(id); !ok {
		return ErrUnknownSkip
	}
	p.state.SelectedID = id
	p.state.HasSelection = true
	return nil
}

func (p *Page) SetFilters(f FilterState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Status != StatusReady {
		return ErrNotReady
	}
	f.SortBy = ParseSortKey(string(f.SortBy))
	p.state.Filters = f
	p.recompute()
	return nil
}

// ResetFilters clears both toggles. The sort key is kept.
func (p *Page) ResetFilters() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Status != StatusReady {
		return ErrNotReady
	}
	p.state.Filters.RoadLegalOnly = false
	p.state.Filters.HeavyWasteOnly = false
	p.recompute()
	return nil
}

func (p *Page) SetHelp(open bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.HelpOpen = open
}

func (p *Page) ToggleHelp() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.HelpOpen = !p.state.HelpOpen
	return p.state.HelpOpen
}

// Selected returns the selected skip, if any.
func (p *Page) Selected() (SkipViewModel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.HasSelection {
		return SkipViewModel{}, false
	}
	return p.find(p.state.SelectedID)
}

func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot copies the page into a PageData for rendering.
func (p *Page) Snapshot() PageData {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := PageData{
		PageState: p.state,
		Loading:   p.state.Status == StatusLoading,
		Total:     len(p.full),
		Steps:     checkoutSteps,
		Guide:     sizeGuide,
	}
	if p.state.Status == StatusError {
		data.Error = loadFailedMessage
		return data
	}
	data.Skips = append([]SkipViewModel(nil), p.displayed...)
	if sel, ok := p.find(p.state.SelectedID); ok && p.state.HasSelection {
		data.Selected = sel
	}
	return data
}

// ErrorText is the underlying fetch error, for logs.
func (p *Page) ErrorText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errText
}

func (p *Page) recompute() {
	p.displayed = Apply(p.full, p.state.Filters)
}

func (p *Page) find(id int64) (SkipViewModel, bool) {
	for _, s := range p.full {
		if s.ID == id {
			return s, true
		}
	}
	return SkipViewModel{}, false
}
