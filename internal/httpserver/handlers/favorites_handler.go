package handlers

import (
	"net/http"

	"dealership/internal/auth"
	"dealership/internal/httpserver/view"

	"github.com/go-chi/chi/v5"
)

func ListFavorites(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		p, err := mustProfile(r)
		if err != nil {
			return err
		}
		favs, err := d.Favorites.List(r.Context(), p)
		if err != nil {
			return err
		}
		return d.page(w, r, http.StatusOK, "favorites", view.Data{Title: "My Favorites", Page: favs})
	})
}

// AddFavorite is reachable anonymously; the use-case sends visitors to login.
func AddFavorite(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := d.Favorites.Add(r.Context(), auth.OptionalProfile(r.Context()), chi.URLParam(r, "inv_id"))
		d.follow(w, r, out)
	}
}

func RemoveFavorite(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		p, err := mustProfile(r)
		if err != nil {
			return err
		}
		out, err := d.Favorites.Remove(r.Context(), p, chi.URLParam(r, "inv_id"))
		if err != nil {
			return err
		}
		d.follow(w, r, out)
		return nil
	})
}

func RemoveSelectedFavorites(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		p, err := mustProfile(r)
		if err != nil {
			return err
		}
		if err := r.ParseForm(); err != nil {
			return err
		}
		out := d.Favorites.RemoveSelected(r.Context(), p, r.PostForm["selected"], r.PostForm.Get("clientName"))
		d.follow(w, r, out)
		return nil
	})
}
