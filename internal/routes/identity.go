package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casperid/humanid/internal/identity"
)

// IdentityRouteOptions carries the middlewares placed in front of identity routes.
type IdentityRouteOptions struct {
	LookupLimiter fiber.Handler
	AdminKey      fiber.Handler
	Idempotency   fiber.Handler
}

// RegisterIdentityRoutes wires derivation and resolver endpoints.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, opts IdentityRouteOptions) {
	limited := func(h fiber.Handler) []fiber.Handler {
		if opts.LookupLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{opts.LookupLimiter, h}
	}
	r.Get("/derive", limited(h.Derive)...)
	r.Get("/identities/:query", limited(h.Lookup)...)

	ensure := []fiber.Handler{}
	for _, mw := range []fiber.Handler{opts.AdminKey, opts.Idempotency} {
		if mw != nil {
			ensure = append(ensure, mw)
		}
	}
	r.Post("/identities", append(ensure, h.Ensure)...)
}
