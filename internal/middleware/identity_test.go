package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cedarelevator/commerce/internal/domain"
)

func TestWithIdentity(t *testing.T) {
	var got domain.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(IdentityHeader, "user_2x4kJh")

	WithIdentity(next).ServeHTTP(httptest.NewRecorder(), req)

	if got.UserID != "user_2x4kJh" {
		t.Errorf("UserID = %q, want %q", got.UserID, "user_2x4kJh")
	}
	if !got.Authenticated() {
		t.Error("identity should be authenticated")
	}
}

func TestWithIdentity_AdminRole(t *testing.T) {
	var got domain.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(IdentityHeader, "user_staff")
	req.Header.Set(RoleHeader, "admin")

	WithIdentity(next).ServeHTTP(httptest.NewRecorder(), req)

	if !got.Admin() {
		t.Error("identity should carry the admin role")
	}
}

func TestWithIdentity_RoleWithoutUserIsNotAdmin(t *testing.T) {
	var got domain.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RoleHeader, "admin")

	WithIdentity(next).ServeHTTP(httptest.NewRecorder(), req)

	if got.Admin() {
		t.Error("a role header without a user ID must not grant staff access")
	}
}

func TestWithIdentity_MissingHeaderIsGuest(t *testing.T) {
	var got domain.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.IdentityFromContext(r.Context())
	})

	WithIdentity(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got.Authenticated() {
		t.Error("missing header should leave the caller a guest")
	}
}
