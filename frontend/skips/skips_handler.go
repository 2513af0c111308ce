package skips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "skiphire/frontend/shared/context"
	"skiphire/infrastructure/audit"
	"skiphire/infrastructure/cache"
	"skiphire/infrastructure/pricing"
	"skiphire/infrastructure/session"
	"skiphire/infrastructure/sqlite"
)

// Deps are the collaborators shared by the skip handlers.
type Deps struct {
	DB           *sqlite.DB
	Pages        *cache.PageCache[*Page]
	Source       pricing.Source
	Location     pricing.Location
	ImageBaseURL string
	Audit        *audit.Service
}

const (
	skipsPath      = "/skips"
	apiPageToken   = "api"
	msgNotLoaded   = "Skip options are not loaded yet"
	msgPageExpired = "Your page expired. Skip options have been reloaded."
)

// SkipsPageQueryHandler renders the skip selection page. The first visit of a
// page token starts the fetch in the background and gets the loading view.
func SkipsPageQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessioncontext.GetPageTokenFromContext(r.Context())
		if !ok {
			http.Error(w, "missing page token", http.StatusBadRequest)
			return
		}
		page := deps.Pages.FindOrAdd(token, NewPage)

		// The fetch outlives the request that started it.
		startLoad(context.WithoutCancel(r.Context()), deps, token, page)

		data := page.Snapshot()
		if msg := strings.TrimSpace(r.URL.Query().Get("error")); msg != "" {
			data.Message = msg
		} else if msg := strings.TrimSpace(r.URL.Query().Get("status")); msg != "" {
			data.Message = msg
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := SkipsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render skips page", http.StatusInternalServerError)
			return
		}
	}
}

func startLoad(ctx context.Context, deps Deps, token string, page *Page) {
	start := time.Now()
	page.Start(ctx, deps.Source, deps.ImageBaseURL, func(err error) {
		took := time.Since(start)
		total := page.Snapshot().Total
		if err != nil {
			slog.Error("skip fetch failed",
				slog.String("page", token),
				slog.String("outcome", fetchOutcome(err)),
				slog.Int("status", pricing.StatusCode(err)),
				slog.Any("err", err))
		} else {
			slog.Info("skip fetch complete", slog.String("page", token), slog.Int("records", total), slog.Duration("took", took))
		}
		run := NewFetchRun(token, deps.Location, total, took, err)
		if err := RecordFetchRun(ctx, deps.DB, run); err != nil {
			slog.Error("record fetch run failed", slog.String("page", token), slog.Any("err", err))
		}
	})
}

// ReloadCommandHandler discards the page and starts over with a new token.
func ReloadCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := sessioncontext.GetPageTokenFromContext(r.Context()); ok {
			deps.Pages.Delete(token)
		}
		http.SetCookie(w, session.PageCookie(session.NewToken(), session.DefaultMaxAge))
		http.Redirect(w, r, skipsPath, http.StatusSeeOther)
	}
}

// UpdateFiltersCommandHandler replaces the filter toggles and sort key.
func UpdateFiltersCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := currentPage(w, r, deps)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, "invalid form")
			return
		}
		if err := page.SetFilters(FilterStateFromValues(r.PostForm)); err != nil {
			redirectWithError(w, r, msgNotLoaded)
			return
		}
		http.Redirect(w, r, skipsPath, http.StatusSeeOther)
	}
}

// ResetFiltersCommandHandler clears both filter toggles.
func ResetFiltersCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := currentPage(w, r, deps)
		if !ok {
			return
		}
		if err := page.ResetFilters(); err != nil {
			redirectWithError(w, r, msgNotLoaded)
			return
		}
		http.Redirect(w, r, skipsPath, http.StatusSeeOther)
	}
}

// SelectSkipCommandHandler selects the skip named in the URL.
func SelectSkipCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid skip id", http.StatusBadRequest)
			return
		}
		page, ok := currentPage(w, r, deps)
		if !ok {
			return
		}
		switch err := page.Select(id); {
		case errors.Is(err, ErrUnknownSkip):
			redirectWithError(w, r, "Skip not found")
			return
		case err != nil:
			redirectWithError(w, r, msgNotLoaded)
			return
		}
		http.Redirect(w, r, skipsPath+"#skip-"+strconv.FormatInt(id, 10), http.StatusSeeOther)
	}
}

func ToggleHelpCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := currentPage(w, r, deps)
		if !ok {
			return
		}
		page.ToggleHelp()
		http.Redirect(w, r, skipsPath, http.StatusSeeOther)
	}
}

// ContinueCommandHandler records the hand-off of the selected skip to the permit step.
func ContinueCommandHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := currentPage(w, r, deps)
		if !ok {
			return
		}
		selected, ok := page.Selected()
		if !ok {
			redirectWithError(w, r, "Select a skip to continue")
			return
		}
		token, _ := sessioncontext.GetPageTokenFromContext(r.Context())
		if err := RecordContinue(r.Context(), deps.DB, deps.Audit, token, page.State(), selected); err != nil {
			slog.Error("record continue failed", slog.String("page", token), slog.Int64("skip_id", selected.ID), slog.Any("err", err))
			redirectWithError(w, r, "failed to continue")
			return
		}
		msg := fmt.Sprintf("%s Skip selected (%s). Next step: %s.", selected.SizeLabel, QuoteReference(selected.ID), nextStepLabel())
		http.Redirect(w, r, skipsPath+"?status="+url.QueryEscape(msg), http.StatusSeeOther)
	}
}

func ExportCSVQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := readySnapshot(w, r, deps)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=skips.csv")
		if err := WriteCSV(w, data.Skips); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

func ExportXLSXQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := readySnapshot(w, r, deps)
		if !ok {
			return
		}
		body, err := RenderXLSX(data)
		if err != nil {
			slog.Error("render xlsx failed", slog.Any("err", err))
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=skips.xlsx")
		_, _ = w.Write(body)
	}
}

// QuotePDFQueryHandler renders a printable quote for the selected skip.
func QuotePDFQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessioncontext.GetPageTokenFromContext(r.Context())
		if !ok {
			http.Error(w, "missing page token", http.StatusBadRequest)
			return
		}
		page, found := deps.Pages.Find(token)
		if !found {
			http.Error(w, "no skip selected", http.StatusNotFound)
			return
		}
		selected, ok := page.Selected()
		if !ok {
			http.Error(w, "no skip selected", http.StatusNotFound)
			return
		}
		pdf, ref, err := renderQuotePDF(selected, locationLabel(deps.Location), time.Now())
		if err != nil {
			slog.Error("render quote pdf failed", slog.Int64("skip_id", selected.ID), slog.Any("err", err))
			http.Error(w, "failed to render quote", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=quote-"+ref+".pdf")
		_, _ = w.Write(pdf)
	}
}

// SkipsResponse is the body of GET /api/skips.
type SkipsResponse struct {
	Total   int             `json:"total"`
	Count   int             `json:"count"`
	Filters FilterState     `json:"filters"`
	Skips   []SkipViewModel `json:"skips"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SkipsAPIQueryHandler fetches, transforms, filters and sorts in one stateless call.
func SkipsAPIQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := FilterStateFromValues(r.URL.Query())

		start := time.Now()
		raw, err := deps.Source.FetchSkips(r.Context())
		run := NewFetchRun(apiPageToken, deps.Location, len(raw), time.Since(start), err)
		if recErr := RecordFetchRun(context.WithoutCancel(r.Context()), deps.DB, run); recErr != nil {
			slog.Error("record fetch run failed", slog.String("page", apiPageToken), slog.Any("err", recErr))
		}
		if err != nil {
			slog.Error("skip fetch failed", slog.String("page", apiPageToken), slog.String("outcome", run.Outcome), slog.Any("err", err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: pricing.ErrFetchFailed.Error()})
			return
		}

		full := TransformAll(raw, deps.ImageBaseURL)
		list := Apply(full, filters)
		writeJSON(w, http.StatusOK, SkipsResponse{
			Total:   len(full),
			Count:   len(list),
			Filters: filters,
			Skips:   list,
		})
	}
}

// FetchRunsAPIQueryHandler lists recent pricing fetches.
func FetchRunsAPIQueryHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > 200 {
			limit = 200
		}
		runs, err := LoadRecentFetchRuns(r.Context(), deps.DB, limit)
		if err != nil {
			http.Error(w, "failed to load fetch runs", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// FilterStateFromValues reads road_legal_only, heavy_waste_only and sort.
func FilterStateFromValues(v url.Values) FilterState {
	return FilterState{
		RoadLegalOnly:  formBool(v.Get("road_legal_only")),
		HeavyWasteOnly: formBool(v.Get("heavy_waste_only")),
		SortBy:         ParseSortKey(v.Get("sort")),
	}
}

func formBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// currentPage finds the caller's page. A missing page sends the visitor back to
// GET /skips, which starts a fresh one.
func currentPage(w http.ResponseWriter, r *http.Request, deps Deps) (*Page, bool) {
	token, ok := sessioncontext.GetPageTokenFromContext(r.Context())
	if !ok {
		http.Error(w, "missing page token", http.StatusBadRequest)
		return nil, false
	}
	page, found := deps.Pages.Find(token)
	if !found {
		redirectWithError(w, r, msgPageExpired)
		return nil, false
	}
	return page, true
}

func readySnapshot(w http.ResponseWriter, r *http.Request, deps Deps) (PageData, bool) {
	token, ok := sessioncontext.GetPageTokenFromContext(r.Context())
	if !ok {
		http.Error(w, "missing page token", http.StatusBadRequest)
		return PageData{}, false
	}
	page, found := deps.Pages.Find(token)
	if !found {
		http.Error(w, "skip options are not loaded", http.StatusConflict)
		return PageData{}, false
	}
	data := page.Snapshot()
	if data.Status != StatusReady {
		http.Error(w, "skip options are not loaded", http.StatusConflict)
		return PageData{}, false
	}
	return data, true
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, skipsPath+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func locationLabel(loc pricing.Location) string {
	switch {
	case loc.Area != "" && loc.Postcode != "":
		return loc.Area + ", " + loc.Postcode
	default:
		return loc.Area + loc.Postcode
	}
}
