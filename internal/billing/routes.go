package billing

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/statistics", h.Statistics)
	r.Get("/monthly-details", h.MonthlyDetails)
	r.Get("/customer/{customerId}", h.ListByCustomer)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/send", h.Send)
}
