package handlers

import (
	"errors"
	"net/http"

	"dealership/internal/auth"
	"dealership/internal/flash"
	"dealership/internal/httpserver/view"
	"dealership/internal/models"
	"dealership/internal/services/accounts"
	"dealership/internal/services/favorites"
	"dealership/internal/services/inventory"
	"dealership/internal/store"

	"go.uber.org/zap"
)

// Deps is everything the handlers need. It is built once in main.
type Deps struct {
	Accounts  *accounts.Service
	Favorites *favorites.Service
	Inventory *inventory.Service
	Cookies   auth.CookieWriter
	Flash     *flash.Manager
	View      view.Renderer
	Log       *zap.SugaredLogger
}

// HandlerFunc is a handler that reports failures it could not turn into a page.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap renders the error page for anything h returns: 404 for a missing
// record, 500 otherwise.
func (d *Deps) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		status, title, msg := http.StatusInternalServerError, "Server Error", "Oh no! There was a crash. Maybe try a different route?"
		if errors.Is(err, store.ErrNotFound) {
			status, title, msg = http.StatusNotFound, "404", "Sorry, we appear to have lost that page."
			d.Log.Infow("not found", "path", r.URL.Path, "error", err)
		} else {
			d.Log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		data := view.Data{Title: title, Page: msg, Profile: auth.OptionalProfile(r.Context())}
		if rerr := d.View.Render(w, status, "error", data); rerr != nil {
			d.Log.Errorw("error page failed", "error", rerr)
			http.Error(w, http.StatusText(status), status)
		}
	}
}

// page fills in the parts of Data every view shares and renders it.
func (d *Deps) page(w http.ResponseWriter, r *http.Request, status int, name string, data view.Data) error {
	nav, err := d.Inventory.Classifications(r.Context())
	if err != nil {
		return err
	}
	data.Nav = nav
	data.Profile = auth.OptionalProfile(r.Context())
	data.Flash = d.Flash.Take(r)
	return d.View.Render(w, status, name, data)
}

func (d *Deps) redirect(w http.ResponseWriter, r *http.Request, to string, msgs ...flash.Message) {
	d.Flash.Add(r, msgs...)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (d *Deps) follow(w http.ResponseWriter, r *http.Request, out favorites.Outcome) {
	d.redirect(w, r, out.Redirect, out.Messages...)
}

// mustProfile returns the profile attached by the login stage.
func mustProfile(r *http.Request) (models.Profile, error) {
	p, ok := auth.ProfileFrom(r.Context())
	if !ok {
		return p, errors.New("handler reached without a session profile")
	}
	return p, nil
}
