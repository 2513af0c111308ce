package html

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutEscapesTitleAndAddsRefresh(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<main>hi</main>")
		return err
	})

	var buf bytes.Buffer
	if err := Layout(LayoutOptions{Title: "<Skips>", RefreshSeconds: 2}, body).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>&lt;Skips&gt;</title>",
		`<meta http-equiv="refresh" content="2">`,
		"<main>hi</main>",
		"X-CSRF-Token",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q\n%s", want, out)
		}
	}
}

func TestLayoutOmitsRefreshByDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout(LayoutOptions{Title: "x"}, templ.NopComponent).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "http-equiv") {
		t.Fatalf("expected no refresh meta tag")
	}
}
