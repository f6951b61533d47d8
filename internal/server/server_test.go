package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-lostfound/internal/config"
	"backend-lostfound/internal/post"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          "secret",
		ServerPort:         ":0",
		SuperAdminEmail:    "superadmin@system.com",
		SuperAdminPassword: "SuperAdmin2024!",
		SeedDemoData:       true,
	}
}

func newTestServer(t *testing.T, rdb *redis.Client) *Server {
	t.Helper()
	s, err := NewServer(testConfig(), nil, rdb)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = s.Stream.Close() })
	return s
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["message"]
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestSeededPostsListed(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list posts: %v", err)
	}
	var posts []post.Post
	_ = json.NewDecoder(resp.Body).Decode(&posts)
	if len(posts) != 4 || posts[0].Title != "Lost iPhone 13 Pro" {
		t.Fatalf("unexpected seeded posts %+v", posts)
	}
}

func TestErrorsRenderedAsJSON(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.App.Test(httptest.NewRequest(http.MethodGet, "/posts/does-not-exist", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if msg := decodeMessage(t, resp); msg != "Post not found" {
		t.Fatalf("unexpected message %q", msg)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/verify/2", strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = s.App.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if msg := decodeMessage(t, resp); msg == "" {
		t.Fatalf("expected message in error body")
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errBoom })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeMessage(t, resp); msg != "Internal server error" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAdminVerifiesSeededPost(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newTestServer(t, rdb)

	req := httptest.NewRequest(http.MethodPost, "/admin/auth", strings.NewReader(`{"email":"admin@community.com","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: %v", err)
	}
	var login struct {
		Tokens struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&login)

	if !mr.Exists("lostfound:refresh:" + login.Tokens.RefreshToken) {
		t.Fatalf("expected refresh token stored in redis, got %v", mr.Keys())
	}
	if members, err := mr.Members("lostfound:user_refresh:admin@community.com"); err != nil || len(members) != 1 {
		t.Fatalf("expected refresh token indexed by user, got %v %v", members, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/verify/2", strings.NewReader(`{"action":"approve","notes":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Tokens.AccessToken)
	resp, _ = s.App.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status %d", resp.StatusCode)
	}
	var p post.Post
	_ = json.NewDecoder(resp.Body).Decode(&p)
	if p.Status != post.StatusClosed || p.Verification == nil || p.Verification.AdminID != "admin@community.com" {
		t.Fatalf("unexpected verified post %+v", p)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refreshToken":"`+login.Tokens.RefreshToken+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = s.App.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status %d", resp.StatusCode)
	}
}

func TestOversizedPhotoRejected(t *testing.T) {
	s := newTestServer(t, nil)

	body := &strings.Builder{}
	boundary := "lostfoundboundary"
	body.WriteString("--" + boundary + "\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nBig\r\n")
	body.WriteString("--" + boundary + "\r\nContent-Disposition: form-data; name=\"category\"\r\n\r\nlost\r\n")
	body.WriteString("--" + boundary + "\r\nContent-Disposition: form-data; name=\"contact\"\r\n\r\nme\r\n")
	body.WriteString("--" + boundary + "\r\nContent-Disposition: form-data; name=\"photo\"; filename=\"big.jpg\"\r\nContent-Type: image/jpeg\r\n\r\n")
	body.WriteString(strings.Repeat("x", 5*1024*1024+1))
	body.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	resp, err := s.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg := decodeMessage(t, resp); msg != "Photo must be less than 5MB" {
		t.Fatalf("unexpected message %q", msg)
	}
}

var errBoom = errors.New("boom")
