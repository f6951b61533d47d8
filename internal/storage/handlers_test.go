package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-lostfound/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func multipartBody(t *testing.T, name string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if size >= 0 {
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = part.Write(bytes.Repeat([]byte("x"), size))
	}
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	authSvc := auth.NewService("secret", nil)
	tokens, err := authSvc.GenerateTokens(context.Background(), auth.Identity{UserID: "user-1", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app.Group("/storage"), NewService(NewMemoryStore()), auth.JWTMiddleware("secret"))
	return app, tokens.AccessToken
}

func TestStorageUploadHandler(t *testing.T) {
	app, token := newTestApp(t)

	body, contentType := multipartBody(t, "cat.jpg", 32)
	req := httptest.NewRequest(http.MethodPost, "/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status: %v", err)
	}

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out["url"] != PlaceholderURL("cat.jpg") {
		t.Fatalf("unexpected url: %v", out["url"])
	}
	if _, ok := out["expiresAt"]; ok {
		t.Fatalf("placeholder upload should not carry an expiry: %v", out)
	}
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, Object) error {
	return errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestStorageUploadHidesStoreErrors(t *testing.T) {
	authSvc := auth.NewService("secret", nil)
	tokens, err := authSvc.GenerateTokens(context.Background(), auth.Identity{UserID: "user-1", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	app := fiber.New()
	RegisterRoutes(app.Group("/storage"), NewService(brokenStore{}), auth.JWTMiddleware("secret"))

	body, contentType := multipartBody(t, "cat.jpg", 8)
	req := httptest.NewRequest(http.MethodPost, "/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500: %v", err)
	}
	msg, _ := io.ReadAll(resp.Body)
	if string(msg) != "Internal server error" {
		t.Fatalf("unexpected body %q", msg)
	}
}

func TestStorageUploadMissingFile(t *testing.T) {
	app, token := newTestApp(t)

	body, contentType := multipartBody(t, "", -1)
	req := httptest.NewRequest(http.MethodPost, "/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestStorageUploadRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := multipartBody(t, "cat.jpg", 1)
	req := httptest.NewRequest(http.MethodPost, "/storage/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}
