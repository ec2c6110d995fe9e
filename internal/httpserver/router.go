package httpserver

import (
	"net/http"

	"dealership/internal/auth"
	"dealership/internal/httpserver/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(d *handlers.Deps, gate *auth.Gate, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(lg), middleware.Recoverer, securityHeaders)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(r chi.Router) {
		r.Use(d.Flash.Middleware, gate.Optional())

		r.Get("/", handlers.Home(d))

		r.Route("/inv", func(r chi.Router) {
			r.Get("/type/{classificationId}", handlers.ByClassification(d))
			r.Get("/detail/{invId}", handlers.VehicleDetail(d))

			r.Group(func(staff chi.Router) {
				staff.Use(gate.StaffOnly())
				staff.Get("/", handlers.Management(d))
				staff.Get("/management", handlers.Management(d))
				staff.Get("/add-classification", handlers.AddClassificationForm(d))
				staff.Post("/add-classification", handlers.AddClassification(d))
				staff.Get("/add-inventory", handlers.AddInventoryForm(d))
				staff.Post("/add-inventory", handlers.AddInventory(d))
				staff.Get("/getInventory/{classification_id}", handlers.InventoryJSON(d))
				staff.Get("/edit/{invId}", handlers.EditInventoryForm(d))
				staff.Post("/edit-inventory", handlers.EditInventory(d))
				staff.Get("/delete/{invId}", handlers.DeleteInventoryForm(d))
				staff.Post("/delete-inventory", handlers.DeleteInventory(d))
			})
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/login", handlers.LoginForm(d))
			r.Post("/login", handlers.Login(d))
			r.Get("/register", handlers.RegisterForm(d))
			r.Post("/register", handlers.Register(d))
			r.Get("/logout", handlers.Logout(d))

			r.Group(func(protected chi.Router) {
				protected.Use(gate.LoggedIn())
				protected.Get("/", handlers.AccountHome(d))
				protected.Get("/update/{accountId}", handlers.UpdateAccountForm(d))
				protected.Post("/update", handlers.UpdateAccount(d))
				protected.Post("/update-password", handlers.UpdatePassword(d))
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Post("/add/{inv_id}", handlers.AddFavorite(d))

			r.Group(func(protected chi.Router) {
				protected.Use(gate.LoggedIn())
				protected.Get("/account/favorites", handlers.ListFavorites(d))
				protected.Post("/remove/{inv_id}", handlers.RemoveFavorite(d))
				protected.Post("/remove-selected", handlers.RemoveSelectedFavorites(d))
			})
		})
	})
	return r
}
