package auth

import (
	"errors"
	"net/http"
	"time"
)

// CookieName carries the session token.
const CookieName = "jwt"

var ErrNoToken = errors.New("no session token")

// CookieWriter sets and clears the session cookie. Development deployments
// run over plain http, so Secure is only set outside development.
type CookieWriter struct {
	Development bool
	MaxAge      time.Duration
}

func NewCookieWriter(development bool, maxAge time.Duration) CookieWriter {
	return CookieWriter{Development: development, MaxAge: maxAge}
}

func (c CookieWriter) Set(w http.ResponseWriter, token string) {
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Development {
		http.SetCookie(w, ck)
		return
	}
	ck.Secure = true
	http.SetCookie(w, ck)
}

func (c CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   !c.Development,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns ErrNoToken when the cookie is missing or empty.
func TokenFromRequest(r *http.Request) (string, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", ErrNoToken
	}
	return ck.Value, nil
}
