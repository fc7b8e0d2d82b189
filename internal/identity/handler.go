package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/casperid/humanid/internal/humanid"
	"github.com/casperid/humanid/internal/wallet"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type ensureRequest struct {
	Wallet string `json:"wallet"`
}

type identityResponse struct {
	Wallet    string `json:"wallet"`
	HumanID   string `json:"human_id"`
	ShortID   string `json:"short_id"`
	Source    Source `json:"source"`
	Persisted bool   `json:"persisted"`
	Kind      string `json:"kind,omitempty"`
}

func toResponse(res Resolution) identityResponse {
	return identityResponse{
		Wallet:    res.Wallet,
		HumanID:   res.HumanID,
		ShortID:   res.ShortID,
		Source:    res.Source,
		Persisted: res.Persisted(),
	}
}

const (
	maxWordLength    = 8
	maxShortIDLength = 64
)

// Derive computes identifiers for the wallet query parameter without storing them.
func (h *Handler) Derive(c *fiber.Ctx) error {
	opts := make([]humanid.Option, 0, 3)
	for _, p := range []struct {
		name  string
		limit int
		opt   func(int) humanid.Option
	}{
		{"segments", h.service.MaxSegments(), humanid.WithSegments},
		{"word_length", maxWordLength, humanid.WithWordLength},
		{"short_id_length", maxShortIDLength, humanid.WithShortIDLength},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, p.name+" must be an integer")
		}
		if n > p.limit {
			return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("%s must be at most %d", p.name, p.limit))
		}
		opts = append(opts, p.opt(n))
	}

	res, err := h.service.Derive(c.Query("wallet"), opts...)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Lookup resolves a wallet, account hash, or human ID without creating records.
func (h *Handler) Lookup(c *fiber.Ctx) error {
	query := c.Params("query")
	res, err := h.service.Lookup(c.UserContext(), query)
	if err != nil {
		return toHTTPError(err)
	}
	out := toResponse(res)
	out.Kind = string(wallet.Classify(query))
	return c.Status(http.StatusOK).JSON(out)
}

// Ensure binds a human ID to the wallet in the body if it has none yet.
func (h *Handler) Ensure(c *fiber.Ctx) error {
	var req ensureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.service.Resolve(c.UserContext(), req.Wallet)
	if err != nil {
		return toHTTPError(err)
	}
	status := http.StatusOK
	if res.Source == SourceCreated || res.Source == SourceMigrated {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(toResponse(res))
}

func toHTTPError(err error) error {
	var (
		inputErr     *humanid.InvalidInputError
		collisionErr *CollisionAmbiguityError
	)
	switch {
	case errors.As(err, &inputErr):
		return fiber.NewError(http.StatusBadRequest, inputErr.Error())
	case errors.As(err, &collisionErr):
		return fiber.NewError(http.StatusConflict, collisionErr.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrHumanIDTaken):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusServiceUnavailable, "identity store unavailable")
	}
}
