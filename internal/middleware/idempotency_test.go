package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/casperid/humanid/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *int32, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	var calls int32
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/identities", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		status := fiber.StatusCreated
		if n > 1 {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{"call": n})
	})
	app.Post("/fail", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad wallet")
	})
	return app, &calls, mr
}

func post(t *testing.T, app *fiber.App, path, key string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header.Get("Idempotent-Replayed")
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls, _ := setupIdempotencyApp(t)

	post(t, app, "/identities", "")
	status, _, replayed := post(t, app, "/identities", "")
	if status != fiber.StatusOK || replayed != "" {
		t.Fatalf("expected handler to run again, got %d replayed=%q", status, replayed)
	}
	if atomic.LoadInt32(calls) != 2 {
		t.Fatalf("expected 2 handler calls, got %d", *calls)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls, _ := setupIdempotencyApp(t)

	status, body, _ := post(t, app, "/identities", "abc123")
	if status != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, status)
	}

	// Second request should return the cached response without invoking handler again.
	status2, body2, replayed := post(t, app, "/identities", "abc123")
	if status2 != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, status2)
	}
	if body2 != body || replayed != "true" {
		t.Fatalf("expected replay of %s, got %s (replayed=%q)", body, body2, replayed)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Fatalf("expected handler to run once, got %d", *calls)
	}
}

func TestIdempotencyInProgressConflicts(t *testing.T) {
	app, _, mr := setupIdempotencyApp(t)
	if err := mr.Set(idempotencyPrefix+"busy", inProgressMarker); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if status, _, _ := post(t, app, "/identities", "busy"); status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestIdempotencyReleasesKeyOnError(t *testing.T) {
	app, _, mr := setupIdempotencyApp(t)
	if status, _, _ := post(t, app, "/fail", "k1"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if mr.Exists(idempotencyPrefix + "k1") {
		t.Fatalf("expected reservation to be released after handler error")
	}
}
