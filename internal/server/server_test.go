package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/casperid/humanid/internal/config"
	"github.com/casperid/humanid/internal/humanid"
	"github.com/casperid/humanid/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppName:    "humanid-test",
		AppEnv:     "test",
		Port:       "0",
		LookupRate: 10,
		HumanID: config.HumanIDConfig{
			Segments:        humanid.DefaultSegments,
			WordLength:      humanid.DefaultWordLength,
			ShortIDLength:   humanid.DefaultShortIDLength,
			MaxSegments:     8,
			CollisionPolicy: "extend",
		},
	}
}

func TestErrorsRenderAsJSON(t *testing.T) {
	srv, err := New(testConfig(), nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	cases := []struct {
		target string
		status int
		body   string
	}{
		{"/api/v1/derive", fiber.StatusBadRequest, `"error":"invalid wallet: must be a non-empty string"`},
		{"/api/v1/derive?wallet=x&segments=0", fiber.StatusBadRequest, `"error":`},
		{"/api/v1/identities/nobody-here", fiber.StatusNotFound, `"error":`},
		{"/does-not-exist", fiber.StatusNotFound, `"error":`},
	}
	for _, tc := range cases {
		resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, tc.target, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.target, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.target, tc.status, resp.StatusCode, body)
		}
		if !strings.Contains(string(body), tc.body) {
			t.Fatalf("%s: expected body containing %s, got %s", tc.target, tc.body, body)
		}
		if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
			t.Fatalf("%s: expected json content type, got %q", tc.target, ct)
		}
	}
}

func TestNewRejectsMissingStoresOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"
	if _, err := New(cfg, nil, nil, logging.Discard()); err == nil {
		t.Fatalf("expected error without stores in production")
	}
}
