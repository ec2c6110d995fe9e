package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dealership/internal/flash"
	"dealership/internal/httpserver/view"
	"dealership/internal/models"
	"dealership/internal/services/accounts"
	"dealership/internal/validate"

	"github.com/go-chi/chi/v5"
)

const accountHome = "/account/"

func LoginForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "login", view.Data{Title: "Login"})
	})
}

func Login(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		email := r.PostFormValue("account_email")
		sess, err := d.Accounts.Login(r.Context(), email, r.PostFormValue("account_password"))
		if errors.Is(err, accounts.ErrBadCredentials) {
			d.Flash.Notice(r, "Please check your credentials and try again.")
			return d.page(w, r, http.StatusBadRequest, "login", view.Data{
				Title:  "Login",
				Values: map[string]string{"account_email": email},
			})
		}
		if err != nil {
			return err
		}
		d.Cookies.Set(w, sess.Token)
		http.Redirect(w, r, accountHome, http.StatusSeeOther)
		return nil
	})
}

func RegisterForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "register", view.Data{Title: "Register"})
	})
}

func Register(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		in := accounts.RegisterInput{
			Firstname: r.PostFormValue("account_firstname"),
			Lastname:  r.PostFormValue("account_lastname"),
			Email:     r.PostFormValue("account_email"),
			Password:  r.PostFormValue("account_password"),
		}
		p, err := d.Accounts.Register(r.Context(), in)
		if err == nil {
			d.Flash.Notice(r, fmt.Sprintf("Congratulations, you're registered %s. Please log in.", p.Firstname))
			return d.page(w, r, http.StatusCreated, "login", view.Data{Title: "Login"})
		}

		data := view.Data{
			Title: "Registration",
			Values: map[string]string{
				"account_firstname": in.Firstname,
				"account_lastname":  in.Lastname,
				"account_email":     in.Email,
			},
		}
		status := http.StatusBadRequest
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, status, "register", data)
		}
		switch {
		case errors.Is(err, accounts.ErrDuplicateEmail):
			status = http.StatusConflict
			data.Errors = validate.Errors{"account_email": "Email exists. Please log in or use a different email."}
		default:
			status = http.StatusInternalServerError
			d.Log.Errorw("registration failed", "error", err)
		}
		d.Flash.Notice(r, "Sorry, the registration failed.")
		return d.page(w, r, status, "register", data)
	})
}

func AccountHome(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "account", view.Data{Title: "Account Management"})
	})
}

func profileValues(p models.Profile) map[string]string {
	return map[string]string{
		"account_id":        strconv.Itoa(p.ID),
		"account_firstname": p.Firstname,
		"account_lastname":  p.Lastname,
		"account_email":     p.Email,
	}
}

func UpdateAccountForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		actor, err := mustProfile(r)
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(chi.URLParam(r, "accountId"))
		if err != nil || !accounts.CanEdit(actor, id) {
			d.redirect(w, r, accountHome, flash.NewNotice("You can only update your own account."))
			return nil
		}
		p, err := d.Accounts.Get(r.Context(), id)
		if err != nil {
			return err
		}
		return d.page(w, r, http.StatusOK, "update-account", view.Data{Title: "Update Account", Values: profileValues(p)})
	})
}

func UpdateAccount(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		actor, err := mustProfile(r)
		if err != nil {
			return err
		}
		rawID := r.PostFormValue("account_id")
		id, _ := strconv.Atoi(rawID)
		in := accounts.ProfileInput{
			ID:        id,
			Firstname: r.PostFormValue("account_firstname"),
			Lastname:  r.PostFormValue("account_lastname"),
			Email:     r.PostFormValue("account_email"),
		}
		sess, err := d.Accounts.UpdateProfile(r.Context(), actor, in)
		if err == nil {
			d.Cookies.Set(w, sess.Token)
			d.redirect(w, r, accountHome, flash.NewNotice("Account information updated successfully."))
			return nil
		}

		data := view.Data{
			Title: "Update Account",
			Values: map[string]string{
				"account_id":        rawID,
				"account_firstname": in.Firstname,
				"account_lastname":  in.Lastname,
				"account_email":     in.Email,
			},
		}
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, http.StatusBadRequest, "update-account", data)
		}
		switch {
		case errors.Is(err, accounts.ErrForbidden):
			d.redirect(w, r, accountHome, flash.NewNotice("You can only update your own account."))
			return nil
		case errors.Is(err, accounts.ErrDuplicateEmail):
			data.Errors = validate.Errors{"account_email": "Email exists. Please log in or use a different email."}
			d.Flash.Notice(r, "Sorry, the update failed.")
			return d.page(w, r, http.StatusConflict, "update-account", data)
		}
		d.Log.Errorw("account update failed", "account_id", in.ID, "error", err)
		d.Flash.Notice(r, "There was an error updating the account.")
		return d.page(w, r, http.StatusInternalServerError, "update-account", data)
	})
}

func UpdatePassword(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		actor, err := mustProfile(r)
		if err != nil {
			return err
		}
		rawID := r.PostFormValue("account_id")
		id, _ := strconv.Atoi(rawID)
		_, err = d.Accounts.UpdatePassword(r.Context(), actor, accounts.PasswordInput{ID: id, Password: r.PostFormValue("account_password")})
		if err == nil {
			d.Flash.Notice(r, "Password updated successfully.")
			return d.page(w, r, http.StatusOK, "account", view.Data{Title: "Account Management"})
		}

		data := view.Data{Title: "Update Account", Values: map[string]string{"account_id": rawID}}
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, http.StatusBadRequest, "update-account", data)
		}
		status := http.StatusForbidden
		if !errors.Is(err, accounts.ErrForbidden) {
			status = http.StatusInternalServerError
			d.Log.Errorw("password update failed", "account_id", id, "error", err)
		}
		d.Flash.Notice(r, "Sorry, password update failed.")
		return d.page(w, r, status, "update-account", data)
	})
}

// Logout is safe to repeat: with no session it only clears cookies.
func Logout(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Cookies.Clear(w)
		d.Flash.Destroy(w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
