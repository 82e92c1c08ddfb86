package handlers

import (
	"net/http"
	"testing"

	"github.com/taxdesk/backend/models"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	body := `{"firstName":"Ann","lastName":"Lee","email":"dup@firm.test","password":"secret123","company":"Lee Tax Co"}`
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusOK {
		t.Fatalf("first register: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second register: expected 400 got %d", w.Code)
	}
}

func TestAdminRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	body := `{"firstName":"Bo","lastName":"Ray","email":"admin-dup@firm.test","password":"secret123","company":"Firm"}`
	if w := doJSON(t, r, http.MethodPost, "/api/admin/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/admin/register", "", body); w.Code != http.StatusBadRequest {
		t.Fatalf("second register: expected 400 got %d", w.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", `{"firstName":"Ann"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestLoginWrongPasswordNeverIssuesToken(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	registerAndLogin(t, r, "claire@firm.test", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", `{"email":"claire@firm.test","password":"wrongpass"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if _, ok := decodeBody(t, w)["token"]; ok {
		t.Fatalf("token must never be issued on bad password: %s", w.Body.String())
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", `{"email":"nobody@firm.test","password":"secret123"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestUserTokenClaims(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	id, token := registerAndLogin(t, r, "dana@firm.test", models.RoleUser)

	claims, err := parseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if sub, _ := claims["sub"].(float64); uint(sub) != id {
		t.Fatalf("sub: expected %d got %v", id, claims["sub"])
	}
	if role, _ := claims["role"].(string); role != models.RoleUser {
		t.Fatalf("role: expected user got %v", claims["role"])
	}
	if _, ok := claims["email"]; ok {
		t.Fatalf("user tokens must not carry an email claim: %v", claims)
	}
}

func TestAdminTokenClaims(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	id, token := registerAndLogin(t, r, "root@firm.test", models.RoleAdmin)

	claims, err := parseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if sub, _ := claims["sub"].(float64); uint(sub) != id {
		t.Fatalf("sub: expected %d got %v", id, claims["sub"])
	}
	if email, _ := claims["email"].(string); email != "root@firm.test" {
		t.Fatalf("email: expected root@firm.test got %v", claims["email"])
	}
	if role, _ := claims["role"].(string); role != models.RoleAdmin {
		t.Fatalf("role: expected admin got %v", claims["role"])
	}
}

func TestUserLoginRejectsAdminEndpointAndViceVersa(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	registerAndLogin(t, r, "mix@firm.test", models.RoleUser)

	// A client credential cannot log in through the admin entry point.
	w := doJSON(t, r, http.MethodPost, "/api/admin/login", "", `{"email":"mix@firm.test","password":"secret123"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("admin login with user credential: expected 401 got %d", w.Code)
	}
}

func TestAdminRoutesRejectUserToken(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	_, userToken := registerAndLogin(t, r, "eve@firm.test", models.RoleUser)

	if w := doJSON(t, r, http.MethodGet, "/api/admin/invoices", userToken, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("user token on admin route: expected 401 got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/admin/invoices", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401 got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/admin/invoices", "not-a-token", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401 got %d", w.Code)
	}
}
