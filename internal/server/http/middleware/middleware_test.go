package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
	testhelpers "github.com/zulfalsa/danusan-x/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func bearer(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.ResolverStub{}))
	router.GET("/", func(c *gin.Context) {})

	resp := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.ResolverStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	resp = serve(router, bearer(httptest.NewRequest(http.MethodGet, "/", nil)))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.ResolverStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	resp = serve(router, bearer(httptest.NewRequest(http.MethodGet, "/", nil)))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored model.Principal
	want := model.Principal{UserID: 42, Role: model.RoleAdmin}
	router = gin.New()
	router.Use(AuthRequired(testhelpers.ResolverStub{Principal: want}))
	router.GET("/", func(c *gin.Context) {
		stored = Principal(c)
		c.Status(http.StatusOK)
	})
	resp = serve(router, bearer(httptest.NewRequest(http.MethodGet, "/", nil)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored != want {
		t.Fatalf("expected principal %+v, got %+v", want, stored)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name      string
		principal model.Principal
		want      int
	}{
		{"matching role", model.Principal{UserID: 1, Role: model.RoleSeller}, http.StatusOK},
		{"other role", model.Principal{UserID: 1, Role: model.RoleAdmin}, http.StatusForbidden},
		{"anonymous", model.Principal{}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthRequired(testhelpers.ResolverStub{Principal: tt.principal}), RequireRole(model.RoleSeller))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
			resp := serve(router, bearer(httptest.NewRequest(http.MethodGet, "/", nil)))
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}

func TestPrincipalWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := Principal(c); got != (model.Principal{}) {
		t.Fatalf("expected anonymous principal, got %+v", got)
	}
	c.Set(PrincipalContextKey, "not a principal")
	if got := Principal(c); got != (model.Principal{}) {
		t.Fatalf("expected anonymous principal, got %+v", got)
	}
}

type gateStub string

func (g gateStub) GatePassValid(pass string) bool { return pass != "" && pass == string(g) }

func TestGateRequired(t *testing.T) {
	router := gin.New()
	router.Use(GateRequired(gateStub("pass")))
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	if resp := serve(router, httptest.NewRequest(http.MethodPost, "/", nil)); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without pass, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(GatePassHeader, "wrong")
	if resp := serve(router, req); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong pass, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(GatePassHeader, "pass")
	if resp := serve(router, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with header pass, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: gateCookieName, Value: "pass"})
	if resp := serve(router, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie pass, got %d", resp.Code)
	}
}

func TestSetCookies(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	SetGateCookie(c, "pass")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}

	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	values := map[string]string{}
	for _, cookie := range result.Cookies() {
		values[cookie.Name] = cookie.Value
		if !cookie.HttpOnly {
			t.Fatalf("cookie %s must be http only", cookie.Name)
		}
	}
	if values[authCookieName] != "token" || values[gateCookieName] != "pass" {
		t.Fatalf("unexpected cookies %v", values)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}

	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func gzipped(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(payload)); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	_ = gz.Close()
	return buf.Bytes()
}

func TestDecompressRequest(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest(64))
	var body string
	router.POST("/", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, "payload")))
	req.Header.Set("Content-Encoding", "gzip")
	serve(router, req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	body = ""
	serve(router, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("plain"))))
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, strings.Repeat("a", 1000))))
	req.Header.Set("Content-Encoding", "gzip")
	if resp := serve(router, req); resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected inflated body to be capped, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not gzip")))
	req.Header.Set("Content-Encoding", "gzip")
	if resp := serve(router, req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken gzip, got %d", resp.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	levels := map[string]slog.Level{}
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(&levelCapture{Handler: handler, levels: levels})

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing/7", "/boom"} {
		serve(router, httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := map[string]slog.Level{
		"/ok":          slog.LevelInfo,
		"/missing/:id": slog.LevelWarn,
		"/boom":        slog.LevelError,
	}
	for path, level := range want {
		if got, ok := levels[path]; !ok || got != level {
			t.Fatalf("path %s logged at %v (present=%v), want %v", path, got, ok, level)
		}
	}
}

// levelCapture records the level each request path was logged at.
type levelCapture struct {
	slog.Handler
	levels map[string]slog.Level
}

func (h *levelCapture) Handle(ctx context.Context, r slog.Record) error {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "path" {
			h.levels[a.Value.String()] = r.Level
		}
		return true
	})
	return h.Handler.Handle(ctx, r)
}
