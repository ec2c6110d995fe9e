package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"dealership/internal/flash"
	"dealership/internal/httpserver/view"
	"dealership/internal/services/inventory"
	"dealership/internal/store"
	"dealership/internal/validate"

	"github.com/go-chi/chi/v5"
)

const managementPath = "/inv/"

func Home(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "home", view.Data{Title: "Home"})
	})
}

func ByClassification(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		l, err := d.Inventory.ByClassification(r.Context(), chi.URLParam(r, "classificationId"))
		if err != nil {
			return err
		}
		return d.page(w, r, http.StatusOK, "classification", view.Data{Title: l.Title(), Page: l})
	})
}

func VehicleDetail(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		v, err := d.Inventory.Detail(r.Context(), chi.URLParam(r, "invId"))
		if err != nil {
			return err
		}
		return d.page(w, r, http.StatusOK, "detail", view.Data{Title: v.Name(), Page: v})
	})
}

func Management(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "management", view.Data{Title: "Inventory Management"})
	})
}

func AddClassificationForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "add-classification", view.Data{Title: "Add Classification"})
	})
}

func AddClassification(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		name := r.PostFormValue("classification_name")
		c, err := d.Inventory.AddClassification(r.Context(), inventory.ClassificationInput{Name: name})
		if err == nil {
			d.redirect(w, r, managementPath, flash.NewNotice(fmt.Sprintf(`New classification "%s" added.`, c.Name)))
			return nil
		}
		data := view.Data{Title: "Add Classification", Values: map[string]string{"classification_name": name}}
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, http.StatusBadRequest, "add-classification", data)
		}
		status := http.StatusConflict
		if !errors.Is(err, inventory.ErrDuplicateClassification) {
			status = http.StatusInternalServerError
			d.Log.Errorw("add classification failed", "name", name, "error", err)
		}
		d.Flash.Notice(r, "Failed to add classification.")
		return d.page(w, r, status, "add-classification", data)
	})
}

func vehicleForm(r *http.Request) inventory.VehicleInput {
	return inventory.VehicleInput{
		ID:               r.PostFormValue("inv_id"),
		ClassificationID: r.PostFormValue("classification_id"),
		Make:             r.PostFormValue("inv_make"),
		Model:            r.PostFormValue("inv_model"),
		Year:             r.PostFormValue("inv_year"),
		Description:      r.PostFormValue("inv_description"),
		Image:            r.PostFormValue("inv_image"),
		Thumbnail:        r.PostFormValue("inv_thumbnail"),
		Price:            r.PostFormValue("inv_price"),
		Miles:            r.PostFormValue("inv_miles"),
		Color:            r.PostFormValue("inv_color"),
	}
}

func AddInventoryForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return d.page(w, r, http.StatusOK, "add-inventory", view.Data{
			Title:  "Add Inventory Item",
			Values: inventory.NewVehicleInput().Values(),
		})
	})
}

func AddInventory(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		in := vehicleForm(r)
		v, err := d.Inventory.AddVehicle(r.Context(), in)
		if err == nil {
			d.redirect(w, r, managementPath, flash.NewNotice(fmt.Sprintf(`New vehicle "%s" added.`, v.Name())))
			return nil
		}
		data := view.Data{Title: "Add Inventory Item", Values: in.Values()}
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, http.StatusBadRequest, "add-inventory", data)
		}
		d.Log.Errorw("add vehicle failed", "error", err)
		d.Flash.Notice(r, "Sorry, adding the inventory item failed.")
		return d.page(w, r, http.StatusInternalServerError, "add-inventory", data)
	})
}

func InventoryJSON(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		vs, err := d.Inventory.JSON(r.Context(), chi.URLParam(r, "classification_id"))
		if err != nil {
			return err
		}
		d.respondJSON(w, r, vs)
		return nil
	})
}

func EditInventoryForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		v, err := d.Inventory.Detail(r.Context(), chi.URLParam(r, "invId"))
		if err != nil {
			return err
		}
		return d.page(w, r, http.StatusOK, "edit-inventory", view.Data{
			Title:  "Edit " + v.Name(),
			Values: inventory.InputFrom(*v).Values(),
		})
	})
}

func EditInventory(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		in := vehicleForm(r)
		v, err := d.Inventory.UpdateVehicle(r.Context(), in)
		if err == nil {
			d.redirect(w, r, managementPath, flash.NewNotice(fmt.Sprintf("The %s was successfully updated.", v.Name())))
			return nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		data := view.Data{Title: "Edit " + in.Name(), Values: in.Values()}
		if fe, ok := validate.As(err); ok {
			data.Errors = fe
			return d.page(w, r, http.StatusBadRequest, "edit-inventory", data)
		}
		d.Log.Errorw("update vehicle failed", "inv_id", in.ID, "error", err)
		d.Flash.Notice(r, "Sorry, the update failed.")
		return d.page(w, r, http.StatusInternalServerError, "edit-inventory", data)
	})
}

func DeleteInventoryForm(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		v, err := d.Inventory.Detail(r.Context(), chi.URLParam(r, "invId"))
		if err != nil {
			return err
		}
		in := inventory.InputFrom(*v)
		return d.page(w, r, http.StatusOK, "delete-inventory", view.Data{
			Title: "Delete " + v.Name(),
			Values: map[string]string{
				"inv_id":    in.ID,
				"inv_make":  in.Make,
				"inv_model": in.Model,
				"inv_year":  in.Year,
				"inv_price": in.Price,
			},
		})
	})
}

func DeleteInventory(d *Deps) http.HandlerFunc {
	return d.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		rawID := r.PostFormValue("inv_id")
		v, err := d.Inventory.DeleteVehicle(r.Context(), rawID)
		if err == nil {
			d.redirect(w, r, managementPath, flash.NewNotice(fmt.Sprintf("The %s was successfully deleted.", v.Name())))
			return nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		in := vehicleForm(r)
		d.Log.Errorw("delete vehicle failed", "inv_id", rawID, "error", err)
		d.Flash.Notice(r, "Sorry, the delete failed.")
		return d.page(w, r, http.StatusInternalServerError, "delete-inventory", view.Data{
			Title: "Delete " + in.Name(),
			Values: map[string]string{
				"inv_id":    rawID,
				"inv_make":  in.Make,
				"inv_model": in.Model,
				"inv_year":  in.Year,
				"inv_price": in.Price,
			},
		})
	})
}
