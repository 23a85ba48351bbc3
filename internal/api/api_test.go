// Handler-level integration tests. They exercise the full router with real
// stores against PostgreSQL and skip when no database is reachable.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type testEnv struct {
	server *httptest.Server
	users  *store.UserStore
	tokens *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envOr("POSTGRES_USER", "inkwell"),
		envOr("POSTGRES_PASSWORD", "changeme"),
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_DB", "inkwell"),
	)

	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	cfg := &config.Config{
		APIPrefix:   "/api/v1",
		CORSOrigins: []string{"*"},
	}
	tokens := auth.NewManager("test-secret", time.Hour)
	users := store.NewUserStore(db)

	handlers := New(
		cfg,
		users,
		store.NewArticleStore(db),
		store.NewCategoryStore(db),
		store.NewCommentStore(db),
		store.NewMediaStore(db),
		tokens,
		nil, // no object storage in tests
		nil, // no redis in tests
	)

	limiter := middleware.NewRateLimiter(10000, time.Minute)
	t.Cleanup(limiter.Stop)

	server := httptest.NewServer(handlers.Routes(limiter))
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, tokens: tokens}
}

// do sends a JSON request and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, responseBody) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var parsed responseBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, parsed
}

type responseBody struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Meta       *Meta           `json:"meta"`
	Error      *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	suffix := uuid.NewString()[:8]
	admin, err := e.users.Create("admin-"+suffix, "admin-"+suffix+"@test.local", "password123", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	token, err := e.tokens.Issue(admin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestRegisterAndDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	suffix := uuid.NewString()[:8]

	payload := map[string]string{
		"name":     "reader-" + suffix,
		"email":    "reader-" + suffix + "@test.local",
		"password": "password123",
	}

	status, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	if status != http.StatusCreated || !body.Success {
		t.Fatalf("register: got status %d, body %+v", status, body)
	}

	var data struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Token == "" {
		t.Error("register should return a token")
	}
	// Self-registration never grants admin.
	if data.User.Role != models.RoleViewer {
		t.Errorf("role: got %q, want viewer", data.User.Role)
	}

	// Same payload again collides on email and name.
	status, body = env.do(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	if status != http.StatusConflict {
		t.Fatalf("duplicate register: got status %d", status)
	}
	if body.Error == nil || body.Error.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT error, got %+v", body.Error)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	suffix := uuid.NewString()[:8]
	email := "login-" + suffix + "@test.local"

	env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "login-" + suffix, "email": email, "password": "password123",
	})

	status, body := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if status != http.StatusOK || !body.Success {
		t.Fatalf("login: got status %d", status)
	}

	status, body = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password: got status %d", status)
	}
	if body.Error == nil || body.Error.Code != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED, got %+v", body.Error)
	}
}

func TestViewerCannotMutateContent(t *testing.T) {
	env := newTestEnv(t)
	suffix := uuid.NewString()[:8]

	_, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "viewer-" + suffix, "email": "viewer-" + suffix + "@test.local", "password": "password123",
	})
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	status, body := env.do(t, http.MethodPost, "/api/v1/articles", data.Token, map[string]any{
		"title": "Viewer article " + suffix, "content": "nope",
	})
	if status != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", status)
	}
	if body.Error == nil || body.Error.Code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %+v", body.Error)
	}
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	suffix := uuid.NewString()[:8]

	// Create: the slug is the title with whitespace replaced by hyphens,
	// case preserved.
	title := "Hello World " + suffix
	status, body := env.do(t, http.MethodPost, "/api/v1/articles", token, map[string]any{
		"title":   title,
		"content": "# Hi\n\nSome **markdown**.",
		"tags":    []string{"go", "testing"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create: got status %d (%+v)", status, body.Error)
	}

	var article models.Article
	if err := json.Unmarshal(body.Data, &article); err != nil {
		t.Fatalf("unmarshal article: %v", err)
	}
	wantSlug := "Hello-World-" + suffix
	if article.Slug != wantSlug {
		t.Errorf("slug: got %q, want %q", article.Slug, wantSlug)
	}
	if article.Status != models.ArticleStatusDraft {
		t.Errorf("default status: got %q, want draft", article.Status)
	}
	if article.PublishedAt != nil {
		t.Error("draft should have no published_at")
	}

	// Duplicate title conflicts.
	status, _ = env.do(t, http.MethodPost, "/api/v1/articles", token, map[string]any{
		"title": title, "content": "again",
	})
	if status != http.StatusConflict {
		t.Errorf("duplicate title: got status %d, want 409", status)
	}

	// Public slug read counts one view and renders the body.
	readBySlug := func() models.Article {
		status, body := env.do(t, http.MethodGet, "/api/v1/articles/"+wantSlug, "", nil)
		if status != http.StatusOK {
			t.Fatalf("slug read: got status %d", status)
		}
		var a models.Article
		if err := json.Unmarshal(body.Data, &a); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return a
	}

	first := readBySlug()
	if first.ViewsCount != 1 {
		t.Errorf("first read views: got %d, want 1", first.ViewsCount)
	}
	if first.ContentHTML == "" {
		t.Error("slug read should include rendered HTML")
	}
	second := readBySlug()
	if second.ViewsCount != 2 {
		t.Errorf("second read views: got %d, want 2", second.ViewsCount)
	}

	// Publish stamps published_at once.
	status, body = env.do(t, http.MethodPatch, "/api/v1/articles/"+article.ID.String(), token,
		map[string]any{"status": "published"})
	if status != http.StatusOK {
		t.Fatalf("publish: got status %d", status)
	}
	var published models.Article
	if err := json.Unmarshal(body.Data, &published); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publishing should stamp published_at")
	}
	stamp := *published.PublishedAt

	// Unpublish and republish: the stamp must not move.
	env.do(t, http.MethodPatch, "/api/v1/articles/"+article.ID.String(), token,
		map[string]any{"status": "draft"})
	_, body = env.do(t, http.MethodPatch, "/api/v1/articles/"+article.ID.String(), token,
		map[string]any{"status": "published"})
	var republished models.Article
	if err := json.Unmarshal(body.Data, &republished); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if republished.PublishedAt == nil || !republished.PublishedAt.Equal(stamp) {
		t.Errorf("published_at moved: got %v, want %v", republished.PublishedAt, stamp)
	}

	// Delete hides the article from public reads.
	status, _ = env.do(t, http.MethodDelete, "/api/v1/articles/"+article.ID.String(), token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete: got status %d", status)
	}
	status, body = env.do(t, http.MethodGet, "/api/v1/articles/"+wantSlug, "", nil)
	if status != http.StatusNotFound {
		t.Errorf("deleted article read: got status %d, want 404", status)
	}
	if body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %+v", body.Error)
	}
}

func TestArticleListPaginationMeta(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	tag := "metatest-" + uuid.NewString()[:8]

	for i := 1; i <= 12; i++ {
		status, body := env.do(t, http.MethodPost, "/api/v1/articles", token, map[string]any{
			"title":   fmt.Sprintf("Meta test %02d %s", i, tag),
			"content": "body",
			"tags":    []string{tag},
			"status":  "published",
		})
		if status != http.StatusCreated {
			t.Fatalf("create %d: status %d (%+v)", i, status, body.Error)
		}
	}

	status, body := env.do(t, http.MethodGet,
		"/api/v1/articles?tags="+tag+"&page=2&limit=5&sort_by=title&sort_order=asc", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: got status %d", status)
	}

	var items []models.Article
	if err := json.Unmarshal(body.Data, &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("page size: got %d, want 5", len(items))
	}
	if body.Meta == nil {
		t.Fatal("list response should carry meta")
	}
	if body.Meta.Total != 12 || body.Meta.Page != 2 || body.Meta.Limit != 5 || body.Meta.TotalPages != 3 {
		t.Errorf("meta: got %+v, want total=12 page=2 limit=5 totalPages=3", body.Meta)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	name := "Tech " + uuid.NewString()[:8]

	status, body := env.do(t, http.MethodPost, "/api/v1/categories", token, map[string]string{
		"name": name, "description": "tech posts", "color": "#ff8800",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: got status %d (%+v)", status, body.Error)
	}

	var category models.Category
	if err := json.Unmarshal(body.Data, &category); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if category.Slug == "" || category.Slug == name {
		t.Errorf("slug should be derived from name, got %q", category.Slug)
	}

	// Duplicate name conflicts.
	status, _ = env.do(t, http.MethodPost, "/api/v1/categories", token, map[string]string{"name": name})
	if status != http.StatusConflict {
		t.Errorf("duplicate name: got status %d, want 409", status)
	}

	// Public read works without a token.
	status, _ = env.do(t, http.MethodGet, "/api/v1/categories/"+category.ID.String(), "", nil)
	if status != http.StatusOK {
		t.Errorf("public read: got status %d", status)
	}

	status, _ = env.do(t, http.MethodDelete, "/api/v1/categories/"+category.ID.String(), token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete: got status %d", status)
	}
	status, _ = env.do(t, http.MethodGet, "/api/v1/categories/"+category.ID.String(), "", nil)
	if status != http.StatusNotFound {
		t.Errorf("deleted read: got status %d, want 404", status)
	}
}

func TestCommentOwnership(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.adminToken(t)
	suffix := uuid.NewString()[:8]

	// An article to comment on.
	_, body := env.do(t, http.MethodPost, "/api/v1/articles", adminToken, map[string]any{
		"title": "Comment target " + suffix, "content": "body", "status": "published",
	})
	var article models.Article
	if err := json.Unmarshal(body.Data, &article); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Two viewers.
	viewerToken := func(n string) string {
		_, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": n + suffix, "email": n + suffix + "@test.local", "password": "password123",
		})
		var data struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body.Data, &data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return data.Token
	}
	owner := viewerToken("owner-")
	other := viewerToken("other-")

	status, body := env.do(t, http.MethodPost, "/api/v1/comments", owner, map[string]any{
		"content": "mine", "article_id": article.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create comment: got status %d (%+v)", status, body.Error)
	}
	var comment models.Comment
	if err := json.Unmarshal(body.Data, &comment); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// A different viewer may not edit it.
	status, _ = env.do(t, http.MethodPatch, "/api/v1/comments/"+comment.ID.String(), other,
		map[string]string{"content": "hijacked"})
	if status != http.StatusForbidden {
		t.Errorf("other viewer edit: got status %d, want 403", status)
	}

	// The author may.
	status, _ = env.do(t, http.MethodPatch, "/api/v1/comments/"+comment.ID.String(), owner,
		map[string]string{"content": "edited"})
	if status != http.StatusOK {
		t.Errorf("author edit: got status %d", status)
	}

	// And so may an admin.
	status, _ = env.do(t, http.MethodDelete, "/api/v1/comments/"+comment.ID.String(), adminToken, nil)
	if status != http.StatusOK {
		t.Errorf("admin delete: got status %d", status)
	}
}

func TestMediaUnavailableWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/media/move-temp", token, map[string]any{
		"article_id": uuid.New(), "urls": []string{"http://example.com/tmp/x.png"},
	})
	if status != http.StatusServiceUnavailable {
		t.Fatalf("got status %d, want 503", status)
	}
	if body.Error == nil || body.Error.Code != "STORAGE_UNAVAILABLE" {
		t.Errorf("expected STORAGE_UNAVAILABLE, got %+v", body.Error)
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	suffix := uuid.NewString()[:8]

	_, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "dash-" + suffix, "email": "dash-" + suffix + "@test.local", "password": "password123",
	})
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	status, _ := env.do(t, http.MethodGet, "/api/v1/dashboard", data.Token, nil)
	if status != http.StatusForbidden {
		t.Errorf("viewer dashboard: got status %d, want 403", status)
	}

	status, body = env.do(t, http.MethodGet, "/api/v1/dashboard", env.adminToken(t), nil)
	if status != http.StatusOK {
		t.Fatalf("admin dashboard: got status %d", status)
	}
	var stats dashboardStats
	if err := json.Unmarshal(body.Data, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.Users < 1 {
		t.Errorf("expected at least one user counted, got %d", stats.Users)
	}
}
