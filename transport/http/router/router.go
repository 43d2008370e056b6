package router

import (
	"lodge/internal/handlers/booking"
	"lodge/internal/handlers/group"
	"lodge/internal/handlers/report"
	"lodge/internal/handlers/sync"
	"lodge/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking booking.Handler
	Group   group.Handler
	Sync    sync.Handler
	Report  report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.Tracing)
		routerGroup.Use(r.App.Actor)
		routerGroup.Use(r.App.RateLimit())

		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Group.Router(routerGroup)

		// Sync operations and reports are staff tooling, not guest traffic.
		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.Auth.APIKey)

			r.DomainHandlers.Sync.Router(protected)
			r.DomainHandlers.Report.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
	}
}
