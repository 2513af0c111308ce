package skips

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "skiphire/frontend/shared/html"
)

const pageTitle = "Choose Your Skip Size"

func esc(s string) string {
	return templ.EscapeString(s)
}

// SkipsPage renders the loading, error or ready view for data.
func SkipsPage(data PageData) templ.Component {
	opts := sharedhtml.LayoutOptions{Title: pageTitle}
	var body string
	switch {
	case data.Loading:
		opts.RefreshSeconds = 1
		body = loadingView()
	case data.Status == StatusError:
		body = errorView(data)
	default:
		body = readyView(data)
	}
	return sharedhtml.Layout(opts, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	}))
}

func loadingView() string {
	return `<div class="page-center"><div class="text-center">` +
		`<div class="spinner" aria-hidden="true"></div>` +
		`<p class="muted">Loading skip options...</p>` +
		`</div></div>`
}

func errorView(data PageData) string {
	msg := data.Error
	if msg == "" {
		msg = loadFailedMessage
	}
	return `<div class="page-center"><div class="text-center">` +
		`<div class="icon-alert" aria-hidden="true">!</div>` +
		`<p class="muted">` + esc(msg) + `</p>` +
		`<form method="post" action="/skips/reload"><button class="btn btn-primary" type="submit">Try Again</button></form>` +
		`</div></div>`
}

func readyView(data PageData) string {
	var b strings.Builder
	b.WriteString(stepperView(data.Steps))
	b.WriteString(`<main class="container">`)
	if data.Message != "" {
		b.WriteString(`<div class="alert" role="status">` + esc(data.Message) + `</div>`)
	}
	b.WriteString(`<header class="text-center">`)
	b.WriteString(`<h1>Choose Your Skip Size</h1>`)
	b.WriteString(`<p class="lead">Select the skip size that best suits your needs</p>`)
	b.WriteString(`<form method="post" action="/skips/help"><button class="link" type="submit">Need help choosing?</button></form>`)
	b.WriteString(`</header>`)
	if data.HelpOpen {
		b.WriteString(helpModalView(data.Guide))
	}
	b.WriteString(filtersView(data))
	b.WriteString(galleryView(data))
	if len(data.Skips) == 0 {
		b.WriteString(emptyStateView())
	}
	if data.HasSelection {
		b.WriteString(continueView(data.Selected))
	}
	b.WriteString(`</main>`)
	return b.String()
}

func stepperView(steps []ProgressStep) string {
	var b strings.Builder
	b.WriteString(`<nav class="stepper" aria-label="Checkout progress"><ol>`)
	for i, step := range steps {
		state := "pending"
		marker := fmt.Sprintf("%d", step.ID)
		switch {
		case step.Completed:
			state = "completed"
			marker = "&#10003;"
		case step.Active:
			state = "active"
		}
		fmt.Fprintf(&b, `<li class="step step-%s"`, state)
		if step.Active {
			b.WriteString(` aria-current="step"`)
		}
		fmt.Fprintf(&b, `><span class="step-marker">%s</span><span class="step-label">%s</span>`, marker, esc(step.Label))
		if i < len(steps)-1 {
			connector := "pending"
			if step.Completed {
				connector = "completed"
			}
			fmt.Fprintf(&b, `<span class="step-connector step-connector-%s"></span>`, connector)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol></nav>`)
	return b.String()
}

func filtersView(data PageData) string {
	var b strings.Builder
	b.WriteString(`<section class="panel filters">`)
	b.WriteString(`<form method="post" action="/skips/filters" class="filters-form">`)
	b.WriteString(`<span class="label">Filters:</span>`)
	b.WriteString(checkbox("road_legal_only", "Road legal only", data.Filters.RoadLegalOnly))
	b.WriteString(checkbox("heavy_waste_only", "Heavy waste suitable", data.Filters.HeavyWasteOnly))
	b.WriteString(`<label class="sort"><span class="label">Sort by:</span><select name="sort" onchange="this.form.submit()">`)
	b.WriteString(option(string(SortBySize), "Size", data.Filters.SortBy == SortBySize))
	b.WriteString(option(string(SortByPrice), "Price", data.Filters.SortBy == SortByPrice))
	b.WriteString(`</select></label>`)
	b.WriteString(`<noscript><button class="btn" type="submit">Apply</button></noscript>`)
	b.WriteString(`</form>`)
	if data.ShowCount() {
		fmt.Fprintf(&b, `<div class="filter-count">Showing %d of %d skips</div>`, len(data.Skips), data.Total)
	}
	b.WriteString(`<div class="exports"><a href="/skips/export.csv">Download CSV</a> <a href="/skips/export.xlsx">Download Excel</a></div>`)
	b.WriteString(`</section>`)
	return b.String()
}

func checkbox(name, label string, checked bool) string {
	attr := ""
	if checked {
		attr = " checked"
	}
	return fmt.Sprintf(`<label class="check"><input type="checkbox" name="%s" value="1" onchange="this.form.submit()"%s><span>%s</span></label>`, name, attr, esc(label))
}

func option(value, label string, selected bool) string {
	attr := ""
	if selected {
		attr = " selected"
	}
	return fmt.Sprintf(`<option value="%s"%s>%s</option>`, esc(value), attr, esc(label))
}

func galleryView(data PageData) string {
	var b strings.Builder
	b.WriteString(`<section class="gallery"><div class="gallery-head"><h2>Available Skip Sizes</h2><span class="muted">Scroll to see all options &rarr;</span></div>`)
	b.WriteString(`<div class="cards">`)
	for _, s := range data.Skips {
		b.WriteString(cardView(s, data.IsSelected(s.ID)))
	}
	b.WriteString(`</div></section>`)
	return b.String()
}

func cardView(s SkipViewModel, selected bool) string {
	var b strings.Builder
	cls := "card"
	if selected {
		cls += " card-selected"
	}
	fmt.Fprintf(&b, `<article class="%s" id="skip-%d">`, cls, s.ID)
	b.WriteString(`<div class="card-image">`)
	fmt.Fprintf(&b, `<img src="%s" alt="%s skip" onerror="this.style.display='none';this.nextElementSibling.style.display='flex';">`, esc(s.ImageURL), esc(s.SizeLabel))
	b.WriteString(`<div class="card-image-fallback"><div class="skip-shape"></div><div class="brand">WE WANT WASTE</div></div>`)
	fmt.Fprintf(&b, `<span class="size-badge">%s</span>`, esc(s.SizeLabel))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="card-body"><div class="card-head">`)
	fmt.Fprintf(&b, `<div><h3>%s Skip</h3><p class="muted">%s</p></div>`, esc(s.SizeLabel), esc(s.Period))
	b.WriteString(priceDetailsView(s))
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<div class="capacity"><div class="label">Capacity</div><div>&asymp; %s bin bags</div><div class="muted small">%s</div></div>`,
		esc(s.Capacity.BinBags), esc(s.Capacity.Description))

	b.WriteString(`<div class="badges">`)
	fmt.Fprintf(&b, `<span class="badge badge-period">%s</span>`, esc(s.DaysLabel))
	if s.RoadLegal {
		b.WriteString(`<span class="badge badge-ok">Road Legal</span>`)
	} else {
		b.WriteString(`<span class="badge badge-warn">Not Road Legal</span>`)
	}
	if s.HeavyWasteSuitable {
		b.WriteString(`<span class="badge badge-info">Heavy Waste OK</span>`)
	} else {
		b.WriteString(`<span class="badge badge-bad">No Heavy Waste</span>`)
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<form method="post" action="/skips/%d/select">`, s.ID)
	if selected {
		b.WriteString(`<button class="btn btn-primary btn-block" type="submit">&#10003; Selected</button>`)
	} else {
		b.WriteString(`<button class="btn btn-block" type="submit">Select This Skip &rarr;</button>`)
	}
	b.WriteString(`</form></div></article>`)
	return b.String()
}

func priceDetailsView(s SkipViewModel) string {
	if s.HasTransportPricing {
		return fmt.Sprintf(`<div class="price"><div class="price-main">%s</div><div class="small">+ %s</div><div class="small muted">Transport + disposal</div></div>`,
			esc(s.TransportLabel()), esc(s.PerTonneLabel()))
	}
	return fmt.Sprintf(`<div class="price"><div class="price-main price-lg">%s</div><div class="small">%s + %s VAT</div></div>`,
		esc(s.Price), esc(s.PriceBeforeVAT), esc(s.VATAmount))
}

func emptyStateView() string {
	return `<section class="empty text-center">` +
		`<h3>No skips match your filters</h3>` +
		`<p class="muted">Try adjusting your filter settings</p>` +
		`<form method="post" action="/skips/filters/reset"><button class="link" type="submit">Clear all filters</button></form>` +
		`</section>`
}

func continueView(selected SkipViewModel) string {
	var b strings.Builder
	b.WriteString(`<section class="continue text-center">`)
	fmt.Fprintf(&b, `<p class="muted">Selected: %s Skip, %s</p>`, esc(selected.SizeLabel), esc(selected.Price))
	b.WriteString(`<form method="post" action="/skips/continue"><button class="btn btn-primary btn-lg" type="submit">Continue to Permit Check &rarr;</button></form>`)
	b.WriteString(`<a class="link small" href="/skips/selection/quote.pdf">Download quote (PDF)</a>`)
	b.WriteString(`</section>`)
	return b.String()
}
