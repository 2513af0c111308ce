package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	sharedhtml "skiphire/frontend/shared/html"
)

const csrfCookieName = sharedhtml.CSRFCookieName

const csrfTokenBytes = 32

// CSRFMiddleware checks the double-submit token on unsafe methods. A request
// without any token is accepted only when its Origin or Referer is this host.
func (s *Server) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := csrfCookieToken(w, r)
		if safeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		if reason := csrfRejection(r, expected); reason != "" {
			slog.Warn("csrf check failed",
				slog.String("reason", reason),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())))
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// csrfRejection returns why an unsafe request fails the check, or "".
func csrfRejection(r *http.Request, expected string) string {
	submitted := submittedCSRFToken(r)
	switch {
	case submitted == "" && sameOrigin(r):
		return ""
	case submitted == "":
		return "missing token"
	case subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1:
		return "token mismatch"
	}
	return ""
}

func submittedCSRFToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(csrfCookieName)); v != "" {
		return v
	}
	return strings.TrimSpace(r.FormValue(sharedhtml.CSRFFieldName))
}

func safeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead ||
		method == http.MethodOptions || method == http.MethodTrace
}

func sameOrigin(r *http.Request) bool {
	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	if source == "" {
		return false
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// csrfCookieToken returns the browser's token, issuing one on first contact.
func csrfCookieToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	buf := make([]byte, csrfTokenBytes)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
