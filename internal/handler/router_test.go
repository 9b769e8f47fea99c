package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tglkwon/aquaboard/internal/middleware"
	"github.com/tglkwon/aquaboard/internal/model"
)

// --- モック定義 ---

type mockAuthenticator struct {
	authenticateFn func(tokenString string) (string, error)
}

func (m *mockAuthenticator) Authenticate(tokenString string) (string, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(tokenString)
	}
	if tokenString == "valid-token" {
		return "member-1", nil
	}
	return "", model.NewUnauthenticatedError()
}

type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func newTestRouter(t *testing.T, account AccountServiceInterface, board BoardServiceInterface) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(6000, 6000))
	t.Cleanup(rl.Stop)

	return NewRouter(&RouterDeps{
		Authenticator:     &mockAuthenticator{},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),

		HealthChecker: &mockHealthChecker{},
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),

		AccountService: account,
		BoardService:   board,
	})
}

// --- ルーティング ---

// 認証が必要なルートはトークンなしで401になること
func TestRouter_ProtectedRoutes_Require401WithoutToken(t *testing.T) {
	router := newTestRouter(t, &mockAccountService{}, &mockBoardService{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/list"},
		{http.MethodPost, "/board"},
		{http.MethodPut, "/board/1"},
		{http.MethodDelete, "/board/1"},
		{http.MethodPost, "/board/1/reply"},
		{http.MethodPut, "/board/1/reply/2"},
		{http.MethodDelete, "/board/1/reply/2"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

// 閲覧系・会員系ルートはトークンなしでアクセスできること
func TestRouter_PublicRoutes_AccessibleWithoutToken(t *testing.T) {
	board := &mockBoardService{
		readFn: func(ctx context.Context, titleNo int64) (*model.PostDetail, error) {
			return &model.PostDetail{Nickname: "アクア", Title: "水槽紹介", Datetime: time.Now()}, nil
		},
	}
	account := &mockAccountService{
		loginFn: func(ctx context.Context, id, password string) (string, error) {
			return "signed-token", nil
		},
	}
	router := newTestRouter(t, account, board)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/member", `{"id":"a","password":"p","nickname":"n"}`},
		{http.MethodPost, "/member/login", `{"id":"a","password":"p"}`},
		{http.MethodGet, "/board/1", ""},
		{http.MethodGet, "/board/1/reply", ""},
		{http.MethodGet, "/health", ""},
		{http.MethodGet, "/metrics", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
		})
	}
}

// 有効なトークンで認証ルートにアクセスできること
func TestRouter_ValidToken_ReachesProtectedRoute(t *testing.T) {
	listCalled := false
	board := &mockBoardService{
		listFn: func(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error) {
			listCalled = true
			return nil, 0, nil
		},
	}
	router := newTestRouter(t, &mockAccountService{}, board)

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("token", "valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !listCalled {
		t.Error("list service should be called")
	}
}

// chiのURLパラメータがサービスまで届くこと
func TestRouter_URLParams_FlowToService(t *testing.T) {
	var gotTitleNo, gotReplyNo int64
	board := &mockBoardService{
		updatePostFn: func(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error) {
			gotTitleNo = titleNo
			return titleNo, nil
		},
		deleteReplyFn: func(ctx context.Context, memberID string, titleNo, replyNo int64) error {
			gotReplyNo = replyNo
			return nil
		},
	}
	router := newTestRouter(t, &mockAccountService{}, board)

	req := httptest.NewRequest(http.MethodPut, "/board/5", strings.NewReader(`{"title":"t","contents":"c"}`))
	req.Header.Set("token", "valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PUT /board/5 status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotTitleNo != 5 {
		t.Errorf("titleNo = %d, want 5", gotTitleNo)
	}

	req = httptest.NewRequest(http.MethodDelete, "/board/5/reply/42", nil)
	req.Header.Set("token", "valid-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("DELETE reply status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotReplyNo != 42 {
		t.Errorf("replyNo = %d, want 42", gotReplyNo)
	}
}

// 全レスポンスに共通ミドルウェアのヘッダーが付与されること
func TestRouter_GlobalMiddleware_SetsHeaders(t *testing.T) {
	router := newTestRouter(t, &mockAccountService{}, &mockBoardService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("expected CORS header")
	}
}

func TestRouter_PreflightRequest_Returns204(t *testing.T) {
	router := newTestRouter(t, &mockAccountService{}, &mockBoardService{})

	req := httptest.NewRequest(http.MethodOptions, "/board", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

// --- ヘルスチェック ---

func TestRouter_Health_DBDown_Returns503(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	router := NewRouter(&RouterDeps{
		Authenticator:     &mockAuthenticator{},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		HealthChecker: &mockHealthChecker{
			pingFn: func(ctx context.Context) error {
				return errors.New("connection refused")
			},
		},
		AccountService: &mockAccountService{},
		BoardService:   &mockBoardService{},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var body map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["result"] != false {
		t.Errorf("result = %v, want false", body["result"])
	}
}
