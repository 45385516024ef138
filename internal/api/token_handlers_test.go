package api

import (
	"net/http"
	"testing"
	"time"
)

func TestTokenLifecycle(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	admin := seedUser(t, "admin", "ADMIN")
	bearer := bearerFor(t, cfg, admin)

	w := doJSON(r, "POST", "/api/tokens", `{}`, bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("create should 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("expected success envelope, got %v", body)
	}
	data := body["data"].(map[string]any)
	value := data["token"].(string)
	if len(value) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(value))
	}
	if data["type"] != "API" {
		t.Errorf("type should default to API, got %v", data["type"])
	}
	if data["isActive"] != true {
		t.Error("new token should be active")
	}
	id := toStrUint(uint(data["id"].(float64)))

	w2 := doJSON(r, "PUT", "/api/tokens/"+id+"/toggle", "", bearer)
	if w2.Code != http.StatusOK {
		t.Fatalf("toggle should 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if decodeBody(t, w2)["data"].(map[string]any)["isActive"] != false {
		t.Error("toggle should deactivate an active token")
	}

	w3 := doJSON(r, "GET", "/api/tokens", "", bearer)
	if w3.Code != http.StatusOK {
		t.Fatalf("list should 200, got %d", w3.Code)
	}
	if n := len(decodeBody(t, w3)["data"].([]any)); n != 1 {
		t.Errorf("expected 1 token, got %d", n)
	}

	w4 := doJSON(r, "DELETE", "/api/tokens/"+id, "", bearer)
	if w4.Code != http.StatusOK {
		t.Fatalf("delete should 200, got %d: %s", w4.Code, w4.Body.String())
	}
	w5 := doJSON(r, "GET", "/api/tokens", "", bearer)
	if n := len(decodeBody(t, w5)["data"].([]any)); n != 0 {
		t.Errorf("expected empty token list after delete, got %d", n)
	}
}

func TestCreateToken_WithOwnerAndExpiry(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	admin := seedUser(t, "admin", "ADMIN")
	owner := seedUser(t, "owner", "EDITOR")
	bearer := bearerFor(t, cfg, admin)

	expires := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	w := doJSON(r, "POST", "/api/tokens",
		`{"name":"feed-import","expiresAt":"`+expires+`","userId":`+toStrUint(owner.ID)+`}`, bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("create should 201, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["type"] != "feed-import" {
		t.Errorf("expected type feed-import, got %v", data["type"])
	}
	if data["userId"].(float64) != float64(owner.ID) {
		t.Errorf("expected owner %d, got %v", owner.ID, data["userId"])
	}
	if data["expiresAt"] == nil {
		t.Error("expected expiresAt on response")
	}
}

func TestCreateToken_UnknownOwner(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	admin := seedUser(t, "admin", "ADMIN")

	w := doJSON(r, "POST", "/api/tokens", `{"userId":9999}`, bearerFor(t, cfg, admin))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown owner should 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateToken_BadExpiry(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	admin := seedUser(t, "admin", "ADMIN")

	w := doJSON(r, "POST", "/api/tokens", `{"expiresAt":"next tuesday"}`, bearerFor(t, cfg, admin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unparseable expiry should 400, got %d: %s", w.Code, w.Body.String())
	}
}
