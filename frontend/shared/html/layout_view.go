package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type LayoutOptions struct {
	Title string
	// RefreshSeconds adds a meta refresh when positive.
	RefreshSeconds int
}

// Layout wraps body in the shared document shell and CSRF form script.
func Layout(opts LayoutOptions, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`); err != nil {
			return err
		}
		if opts.RefreshSeconds > 0 {
			if _, err := fmt.Fprintf(w, `<meta http-equiv="refresh" content="%d">`, opts.RefreshSeconds); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<title>%s</title><link rel="stylesheet" href="/assets/app.css"></head><body>`, templ.EscapeString(opts.Title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if err := CSRFFormScript().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
