package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hotshotlogistics/dispatch/internal/api/handler"
	mw "github.com/hotshotlogistics/dispatch/internal/api/middleware"
)

// Dependencies holds all handler dependencies for the router.
type Dependencies struct {
	Assignments *handler.AssignmentHandler
	Jobs        *handler.JobHandler
	Drivers     *handler.DriverHandler

	HealthHandler http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/health", deps.HealthHandler)

	r.Route("/jobassignments", func(r chi.Router) {
		r.Get("/", deps.Assignments.List)
		r.Post("/", deps.Assignments.Assign)
		r.Get("/active", deps.Assignments.ListActive)
		r.Get("/driver/{driverId}", deps.Assignments.ListByDriver)
		r.Get("/job/{jobId}", deps.Assignments.ListByJob)
		r.Get("/{id}", deps.Assignments.GetByID)
		r.Put("/{id}/status", deps.Assignments.UpdateStatus)
		r.Delete("/{id}", deps.Assignments.Unassign)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", deps.Jobs.List)
		r.Post("/", deps.Jobs.Create)
		r.Get("/{id}", deps.Jobs.Get)
		r.Put("/{id}", deps.Jobs.Update)
		r.Put("/{id}/status", deps.Jobs.UpdateStatus)
		r.Delete("/{id}", deps.Jobs.Delete)
	})

	r.Route("/drivers", func(r chi.Router) {
		r.Get("/", deps.Drivers.List)
		r.Post("/", deps.Drivers.Create)
		r.Get("/{id}", deps.Drivers.Get)
		r.Put("/{id}", deps.Drivers.Update)
		r.Delete("/{id}", deps.Drivers.Delete)
	})

	return r
}
