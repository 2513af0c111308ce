package session

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const CookieName = "X-Skip-Page"

// DefaultMaxAge keeps the page cookie for the browser session only.
const DefaultMaxAge = 0

func PageCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

func NewToken() string {
	return uuid.NewString()
}

// ValidToken reports whether value looks like a token issued by NewToken.
func ValidToken(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
