package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"membership-api/internal/domain"
)

func registerAndToken(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	rec := performRequest(env.router, http.MethodPost, "/auth/register", credentials(email, "secret1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	return decodeAuth(t, rec).Token
}

func decodeProfile(t *testing.T, body []byte) domain.Profile {
	t.Helper()
	var p domain.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	return p
}

func TestProfileHandler_GetProfile(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env, "a@x.com")

	rec := performRequest(env.router, http.MethodGet, "/profile", nil, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	p := decodeProfile(t, rec.Body.Bytes())
	if p.Email != "a@x.com" || p.MembershipLevel != domain.DefaultMembershipLevel || p.Points != 0 {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("profile leaked credential data: %s", rec.Body.String())
	}
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env, "a@x.com")

	rec := performRequest(env.router, http.MethodPut, "/profile", map[string]string{
		"first_name": "Ada",
		"phone":      "555-0100",
	}, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPut, "/profile", map[string]string{
		"last_name": "Lovelace",
	}, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	p := decodeProfile(t, rec.Body.Bytes())
	if p.FirstName == nil || *p.FirstName != "Ada" || p.LastName == nil || *p.LastName != "Lovelace" {
		t.Fatalf("expected partial update to keep earlier fields, got %+v", p)
	}
}

func TestProfileHandler_UpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env, "a@x.com")

	rec := performRequest(env.router, http.MethodPut, "/profile", map[string]string{
		"first_name": strings.Repeat("x", 101),
	}, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProfileHandler_UnknownAccount(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.tokens.Issue("ghost-id", "ghost@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := performRequest(env.router, http.MethodGet, "/profile", nil, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if res := decodeError(t, rec); res.Error != "not_found" {
		t.Fatalf("unexpected error code: %+v", res)
	}
}

func TestProfileHandler_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env, "a@x.com")
	env.repo.err = errors.New("db down")

	rec := performRequest(env.router, http.MethodGet, "/profile", nil, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if res := decodeError(t, rec); res.Error != "internal_error" {
		t.Fatalf("expected unclassified failure as internal_error, got %+v", res)
	}
}
