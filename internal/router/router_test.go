package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestRouter_MethodAndPathValue(t *testing.T) {
	r := New()

	var gotID string
	r.Patch("/api/v1/orders/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		gotID = req.PathValue("id")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/abc-123/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotID != "abc-123" {
		t.Errorf("path value = %q, want %q", gotID, "abc-123")
	}

	// Same path, wrong method.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc-123/status", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var order []string

	record := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "before "+name)
				next.ServeHTTP(w, r)
				order = append(order, "after "+name)
			})
		}
	}

	r := New(record("global"))
	r.Get("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}, record("route"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	want := []string{"before global", "before route", "handler", "after route", "after global"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("execution order = %v, want %v", order, want)
	}
}

func TestRouter_GroupInheritsChain(t *testing.T) {
	var seen []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New(tag("global"))
	r.Group(tag("api")).Get("/api/v1/checkout/eligibility", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/checkout/eligibility", nil))

	if want := []string{"global", "api"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("middleware seen = %v, want %v", seen, want)
	}
}

func TestRecovery_WritesJSONEnvelope(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := New(Recovery(logger))
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body.Error.Code != "internal" {
		t.Errorf("error.code = %q, want %q", body.Error.Code, "internal")
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := New()
	r.Post("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h := CORS([]string{"https://store.cedarelevator.example"})(r)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://store.cedarelevator.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://store.cedarelevator.example" {
		t.Errorf("allow-origin = %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key") {
		t.Error("allow-headers should include Idempotency-Key")
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	r := New()
	r.Get("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {})
	h := CORS([]string{"https://store.cedarelevator.example"})(r)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want empty", got)
	}
}
