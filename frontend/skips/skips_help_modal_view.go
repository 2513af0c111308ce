package skips

import "strings"

func helpModalView(guide []HelpGuideEntry) string {
	var b strings.Builder
	b.WriteString(`<dialog id="help-modal" class="help" open>`)
	b.WriteString(`<h3>Skip Size Guide</h3><div class="help-grid">`)
	for _, g := range guide {
		b.WriteString(`<div class="help-item"><div class="help-title">` + esc(g.Title) + `</div><div class="muted">` + esc(g.Body) + `</div></div>`)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<form method="post" action="/skips/help"><button class="btn" type="submit">Close</button></form>`)
	b.WriteString(`</dialog>`)
	return b.String()
}
