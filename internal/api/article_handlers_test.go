package api

import (
	"net/http"
	"testing"
)

func TestListArticles_AnonymousSeesOnlyPublished(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	seedArticle(t, "public story", editor.ID, cat.ID, true)
	seedArticle(t, "draft story", editor.ID, cat.ID, false)

	w := doJSON(r, "GET", "/api/articles", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	articles := body["articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("anonymous caller should see 1 article, got %d", len(articles))
	}

	// An explicit published=false filter must not leak drafts either.
	w2 := doJSON(r, "GET", "/api/articles?published=false", "", "")
	body2 := decodeBody(t, w2)
	if n := len(body2["articles"].([]any)); n != 1 {
		t.Errorf("filter override should be ignored for anonymous callers, got %d articles", n)
	}
}

func TestListArticles_EditorSeesBothStates(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	seedArticle(t, "public story", editor.ID, cat.ID, true)
	seedArticle(t, "draft story", editor.ID, cat.ID, false)
	bearer := bearerFor(t, cfg, editor)

	w := doJSON(r, "GET", "/api/articles", "", bearer)
	body := decodeBody(t, w)
	if n := len(body["articles"].([]any)); n != 2 {
		t.Errorf("editor without filter should see both states, got %d", n)
	}

	w2 := doJSON(r, "GET", "/api/articles?published=false", "", bearer)
	body2 := decodeBody(t, w2)
	articles := body2["articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("editor filtering drafts should see 1 article, got %d", len(articles))
	}
	first := articles[0].(map[string]any)
	if first["title"] != "draft story" {
		t.Errorf("expected draft story, got %v", first["title"])
	}
}

func TestListArticles_Pagination(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	for i := 0; i < 25; i++ {
		seedArticle(t, "story "+toStrUint(uint(i)), editor.ID, cat.ID, true)
	}

	w := doJSON(r, "GET", "/api/articles?page=2&limit=10", "", "")
	body := decodeBody(t, w)
	if n := len(body["articles"].([]any)); n != 10 {
		t.Errorf("expected 10 articles on page 2, got %d", n)
	}
	p := body["pagination"].(map[string]any)
	if p["page"].(float64) != 2 || p["limit"].(float64) != 10 {
		t.Errorf("unexpected pagination echo: %+v", p)
	}
	if p["total"].(float64) != 25 || p["pages"].(float64) != 3 {
		t.Errorf("expected total 25 over 3 pages, got %+v", p)
	}
}

func TestListArticles_SearchAndSort(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	seedArticle(t, "Budget Vote Passes", editor.ID, cat.ID, true)
	seedArticle(t, "Storm Warning", editor.ID, cat.ID, true)

	w := doJSON(r, "GET", "/api/articles?search=budget", "", "")
	body := decodeBody(t, w)
	articles := body["articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(articles))
	}
	if articles[0].(map[string]any)["title"] != "Budget Vote Passes" {
		t.Errorf("unexpected search hit: %v", articles[0])
	}
}

func TestGetArticle_MasksUnpublished(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	draft := seedArticle(t, "draft story", editor.ID, cat.ID, false)

	w := doJSON(r, "GET", "/api/articles/"+toStrUint(draft.ID), "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("anonymous caller should get 404 for a draft, got %d", w.Code)
	}

	w2 := doJSON(r, "GET", "/api/articles/"+toStrUint(draft.ID), "", bearerFor(t, cfg, editor))
	if w2.Code != http.StatusOK {
		t.Errorf("editor should read a draft, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestGetArticle_NonNumericID(t *testing.T) {
	setupAPITestDB(t)
	r := apiTestRouter(apiTestConfig())
	w := doJSON(r, "GET", "/api/articles/not-a-number", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for non-numeric id, got %d", w.Code)
	}
}

func TestCreateArticle_RequiresEditor(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	visitor := seedUser(t, "visitor", "VISITOR")
	editor := seedUser(t, "editor", "EDITOR")
	cat := seedCategory(t, "World")
	payload := `{"title":"t","content":"c","summary":"s","categoryId":` + toStrUint(cat.ID) + `,"published":true}`

	w := doJSON(r, "POST", "/api/articles", payload, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create should 401, got %d", w.Code)
	}
	w2 := doJSON(r, "POST", "/api/articles", payload, bearerFor(t, cfg, visitor))
	if w2.Code != http.StatusForbidden {
		t.Errorf("visitor create should 403, got %d", w2.Code)
	}
	w3 := doJSON(r, "POST", "/api/articles", payload, bearerFor(t, cfg, editor))
	if w3.Code != http.StatusCreated {
		t.Fatalf("editor create should 201, got %d: %s", w3.Code, w3.Body.String())
	}
	body := decodeBody(t, w3)
	if body["authorId"].(float64) != float64(editor.ID) {
		t.Errorf("caller should become the author, got %v", body["authorId"])
	}
}

func TestCreateArticle_MissingFields(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	editor := seedUser(t, "editor", "EDITOR")

	w := doJSON(r, "POST", "/api/articles", `{"title":"only a title"}`, bearerFor(t, cfg, editor))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", w.Code)
	}
}

func TestUpdateArticle_OwnershipAndPartialUpdate(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	author := seedUser(t, "author", "EDITOR")
	other := seedUser(t, "other", "EDITOR")
	admin := seedUser(t, "admin", "ADMIN")
	cat := seedCategory(t, "World")
	a := seedArticle(t, "original title", author.ID, cat.ID, true)
	path := "/api/articles/" + toStrUint(a.ID)

	w := doJSON(r, "PUT", path, `{"title":"hijacked"}`, bearerFor(t, cfg, other))
	if w.Code != http.StatusForbidden {
		t.Errorf("non-author editor should 403, got %d", w.Code)
	}

	w2 := doJSON(r, "PUT", path, `{"title":"new title"}`, bearerFor(t, cfg, author))
	if w2.Code != http.StatusOK {
		t.Fatalf("author update should 200, got %d: %s", w2.Code, w2.Body.String())
	}
	body := decodeBody(t, w2)
	if body["title"] != "new title" {
		t.Errorf("title not updated: %v", body["title"])
	}
	if body["content"] != a.Content {
		t.Errorf("omitted field should keep its value, got %v", body["content"])
	}

	w3 := doJSON(r, "PUT", path, `{"published":false}`, bearerFor(t, cfg, admin))
	if w3.Code != http.StatusOK {
		t.Errorf("admin should update any article, got %d", w3.Code)
	}
	if decodeBody(t, w3)["published"] != false {
		t.Error("published flag not updated by admin")
	}
}

func TestDeleteArticle_AuthorOrAdmin(t *testing.T) {
	setupAPITestDB(t)
	cfg := apiTestConfig()
	r := apiTestRouter(cfg)
	author := seedUser(t, "author", "EDITOR")
	other := seedUser(t, "other", "EDITOR")
	cat := seedCategory(t, "World")
	a := seedArticle(t, "doomed story", author.ID, cat.ID, true)
	path := "/api/articles/" + toStrUint(a.ID)

	w := doJSON(r, "DELETE", path, "", bearerFor(t, cfg, other))
	if w.Code != http.StatusForbidden {
		t.Errorf("non-author delete should 403, got %d", w.Code)
	}
	w2 := doJSON(r, "DELETE", path, "", bearerFor(t, cfg, author))
	if w2.Code != http.StatusOK {
		t.Fatalf("author delete should 200, got %d: %s", w2.Code, w2.Body.String())
	}
	w3 := doJSON(r, "GET", path, "", bearerFor(t, cfg, author))
	if w3.Code != http.StatusNotFound {
		t.Errorf("deleted article should 404, got %d", w3.Code)
	}
}
