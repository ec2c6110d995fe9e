package auth

import (
	"errors"
	"net/http"
	"slices"

	"dealership/internal/models"

	"go.uber.org/zap"
)

const LoginPath = "/account/login"

// Notifier queues a one-time notice for the next rendered page.
type Notifier interface {
	Notice(r *http.Request, text string)
}

// Gate builds the authentication and authorization stages.
type Gate struct {
	tokens  *TokenService
	cookies CookieWriter
	notify  Notifier
	lg      *zap.SugaredLogger
}

func NewGate(tokens *TokenService, cookies CookieWriter, notify Notifier, lg *zap.SugaredLogger) *Gate {
	return &Gate{tokens: tokens, cookies: cookies, notify: notify, lg: lg}
}

func (g *Gate) verify(r *http.Request) (models.Profile, error) {
	raw, err := TokenFromRequest(r)
	if err != nil {
		return models.Profile{}, err
	}
	return g.tokens.Verify(raw)
}

// LoadProfile attaches the profile of a valid token and never blocks.
// A cookie that fails verification is dropped.
func (g *Gate) LoadProfile() Stage {
	return Stage{Name: "load-profile", Check: func(w http.ResponseWriter, r *http.Request) (*http.Request, Decision) {
		p, err := g.verify(r)
		switch {
		case err == nil:
			return r.WithContext(WithProfile(r.Context(), p)), Continue
		case errors.Is(err, ErrInvalidToken):
			g.cookies.Clear(w)
		}
		return nil, Continue
	}}
}

// RequireLogin redirects to the login page unless the token is present and valid.
func (g *Gate) RequireLogin() Stage {
	return Stage{Name: "require-login", Check: func(w http.ResponseWriter, r *http.Request) (*http.Request, Decision) {
		p, err := g.verify(r)
		if err == nil {
			return r.WithContext(WithProfile(r.Context(), p)), Continue
		}
		if errors.Is(err, ErrInvalidToken) {
			g.lg.Debugw("rejected session token", "path", r.URL.Path, "error", err)
			g.cookies.Clear(w)
		}
		g.notify.Notice(r, "Please log in.")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return nil, Halt
	}}
}

// RequireRole must run after RequireLogin.
func (g *Gate) RequireRole(roles ...models.Role) Stage {
	return Stage{Name: "require-role", Check: func(w http.ResponseWriter, r *http.Request) (*http.Request, Decision) {
		p, ok := ProfileFrom(r.Context())
		if ok && slices.Contains(roles, p.Role) {
			return nil, Continue
		}
		if ok {
			g.lg.Infow("role forbidden", "account_id", p.ID, "role", p.Role, "path", r.URL.Path)
		}
		g.notify.Notice(r, "You do not have permission to access that page. Please log in with an employee or admin account.")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return nil, Halt
	}}
}

func (g *Gate) Optional() func(http.Handler) http.Handler {
	return Pipeline(g.LoadProfile())
}

func (g *Gate) LoggedIn() func(http.Handler) http.Handler {
	return Pipeline(g.RequireLogin())
}

// StaffOnly gates inventory management: login first, then role.
func (g *Gate) StaffOnly() func(http.Handler) http.Handler {
	return Pipeline(g.RequireLogin(), g.RequireRole(models.RoleEmployee, models.RoleAdmin))
}
