package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tglkwon/aquaboard/internal/middleware"
	"github.com/tglkwon/aquaboard/internal/model"
)

// --- モック定義 ---

type mockBoardService struct {
	listFn        func(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error)
	readFn        func(ctx context.Context, titleNo int64) (*model.PostDetail, error)
	createPostFn  func(ctx context.Context, memberID, title, contents string) (int64, error)
	updatePostFn  func(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error)
	deletePostFn  func(ctx context.Context, memberID string, titleNo int64) error
	listRepliesFn func(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error)
	createReplyFn func(ctx context.Context, memberID string, titleNo int64, reply string) error
	updateReplyFn func(ctx context.Context, memberID string, replyNo int64, reply string) error
	deleteReplyFn func(ctx context.Context, memberID string, titleNo, replyNo int64) error
}

func (m *mockBoardService) List(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, pageNo)
	}
	return nil, 0, nil
}

func (m *mockBoardService) Read(ctx context.Context, titleNo int64) (*model.PostDetail, error) {
	if m.readFn != nil {
		return m.readFn(ctx, titleNo)
	}
	return nil, model.NewPostNotFoundError(titleNo)
}

func (m *mockBoardService) CreatePost(ctx context.Context, memberID, title, contents string) (int64, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, memberID, title, contents)
	}
	return 1, nil
}

func (m *mockBoardService) UpdatePost(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error) {
	if m.updatePostFn != nil {
		return m.updatePostFn(ctx, memberID, titleNo, title, contents)
	}
	return titleNo, nil
}

func (m *mockBoardService) DeletePost(ctx context.Context, memberID string, titleNo int64) error {
	if m.deletePostFn != nil {
		return m.deletePostFn(ctx, memberID, titleNo)
	}
	return nil
}

func (m *mockBoardService) ListReplies(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error) {
	if m.listRepliesFn != nil {
		return m.listRepliesFn(ctx, titleNo)
	}
	return nil, nil
}

func (m *mockBoardService) CreateReply(ctx context.Context, memberID string, titleNo int64, reply string) error {
	if m.createReplyFn != nil {
		return m.createReplyFn(ctx, memberID, titleNo, reply)
	}
	return nil
}

func (m *mockBoardService) UpdateReply(ctx context.Context, memberID string, replyNo int64, reply string) error {
	if m.updateReplyFn != nil {
		return m.updateReplyFn(ctx, memberID, replyNo, reply)
	}
	return nil
}

func (m *mockBoardService) DeleteReply(ctx context.Context, memberID string, titleNo, replyNo int64) error {
	if m.deleteReplyFn != nil {
		return m.deleteReplyFn(ctx, memberID, titleNo, replyNo)
	}
	return nil
}

// --- テストヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// withMemberID はテスト用に認証済み会員IDをコンテキストに注入するヘルパー。
func withMemberID(r *http.Request, memberID string) *http.Request {
	return r.WithContext(middleware.ContextWithMemberID(r.Context(), memberID))
}

// --- List ---

func TestBoardHandler_List_ReturnsListAndMaxTitleNo(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var gotPageNo int
	svc := &mockBoardService{
		listFn: func(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error) {
			gotPageNo = pageNo
			return []model.PostSummary{
				{TitleNo: 12, Title: "水草の育て方", Nickname: "アクア", Datetime: now},
			}, 12, nil
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/list?pageNo=2", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotPageNo != 2 {
		t.Errorf("pageNo = %d, want 2", gotPageNo)
	}

	var resp struct {
		Result     bool             `json:"result"`
		List       []map[string]any `json:"list"`
		MaxTitleNo int64            `json:"maxTitleNo"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result {
		t.Error("result should be true")
	}
	if resp.MaxTitleNo != 12 {
		t.Errorf("maxTitleNo = %d, want 12", resp.MaxTitleNo)
	}
	if len(resp.List) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(resp.List))
	}
	// JSONキー名は既存クライアント互換の列名であること
	if resp.List[0]["title_no"] != float64(12) {
		t.Errorf("title_no = %v, want 12", resp.List[0]["title_no"])
	}
	if resp.List[0]["nickname"] != "アクア" {
		t.Errorf("nickname = %v, want アクア", resp.List[0]["nickname"])
	}
	if _, ok := resp.List[0]["datetime"]; !ok {
		t.Error("list row should contain datetime")
	}
}

// 不正なpageNoは1ページ目に正規化されること
func TestBoardHandler_List_InvalidPageNo_DefaultsToFirstPage(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"パラメータなし", ""},
		{"数値でない", "?pageNo=abc"},
		{"ゼロ", "?pageNo=0"},
		{"負数", "?pageNo=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPageNo int
			svc := &mockBoardService{
				listFn: func(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error) {
					gotPageNo = pageNo
					return nil, 0, nil
				},
			}
			h := NewBoardHandler(svc)

			req := httptest.NewRequest(http.MethodGet, "/list"+tt.query, nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if gotPageNo != 1 {
				t.Errorf("pageNo = %d, want 1", gotPageNo)
			}
		})
	}
}

// 投稿ゼロ件でもlistはnullではなく空配列になること
func TestBoardHandler_List_Empty_ReturnsEmptyArray(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	body := w.Body.String()
	if strings.Contains(body, `"list":null`) {
		t.Errorf("list should be an empty array, got %q", body)
	}
	if !strings.Contains(body, `"list":[]`) {
		t.Errorf("expected empty list array, got %q", body)
	}
}

// --- Read ---

func TestBoardHandler_Read_ReturnsDetail(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockBoardService{
		readFn: func(ctx context.Context, titleNo int64) (*model.PostDetail, error) {
			return &model.PostDetail{Nickname: "アクア", Title: "水槽紹介", Contents: "60cm水槽です", Datetime: now}, nil
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/board/1", nil)
	req = withChiURLParam(req, "titleNo", "1")
	w := httptest.NewRecorder()

	h.Read(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Result bool             `json:"result"`
		Read   []map[string]any `json:"read"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result {
		t.Error("result should be true")
	}
	if len(resp.Read) != 1 {
		t.Fatalf("len(read) = %d, want 1", len(resp.Read))
	}
	if resp.Read[0]["title"] != "水槽紹介" {
		t.Errorf("title = %v, want 水槽紹介", resp.Read[0]["title"])
	}
	if resp.Read[0]["contents"] != "60cm水槽です" {
		t.Errorf("contents = %v, want 60cm水槽です", resp.Read[0]["contents"])
	}
}

// 存在しない投稿は404と {result:false} を返すこと
func TestBoardHandler_Read_NotFound_Returns404(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	req := httptest.NewRequest(http.MethodGet, "/board/999", nil)
	req = withChiURLParam(req, "titleNo", "999")
	w := httptest.NewRecorder()

	h.Read(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["result"] != false {
		t.Errorf("result = %v, want false", resp["result"])
	}
}

func TestBoardHandler_Read_InvalidTitleNo_Returns400(t *testing.T) {
	tests := []struct {
		name    string
		titleNo string
	}{
		{"数値でない", "abc"},
		{"ゼロ", "0"},
		{"負数", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBoardHandler(&mockBoardService{})

			req := httptest.NewRequest(http.MethodGet, "/board/"+tt.titleNo, nil)
			req = withChiURLParam(req, "titleNo", tt.titleNo)
			w := httptest.NewRecorder()

			h.Read(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

// --- CreatePost ---

func TestBoardHandler_CreatePost_ReturnsTitleNo(t *testing.T) {
	var gotMemberID, gotTitle, gotContents string
	svc := &mockBoardService{
		createPostFn: func(ctx context.Context, memberID, title, contents string) (int64, error) {
			gotMemberID = memberID
			gotTitle = title
			gotContents = contents
			return 7, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"title":"新しい水槽","contents":"立ち上げました"}`
	req := httptest.NewRequest(http.MethodPost, "/board", strings.NewReader(body))
	req = withMemberID(req, "member-1")
	w := httptest.NewRecorder()

	h.CreatePost(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	// 投稿者はトークン由来の会員IDであること
	if gotMemberID != "member-1" {
		t.Errorf("memberID = %q, want %q", gotMemberID, "member-1")
	}
	if gotTitle != "新しい水槽" || gotContents != "立ち上げました" {
		t.Errorf("got (%q, %q)", gotTitle, gotContents)
	}

	var resp titleNoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result || resp.TitleNo != 7 {
		t.Errorf("resp = %+v, want {true, 7}", resp)
	}
}

func TestBoardHandler_CreatePost_NoMemberID_Returns401(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	body := `{"title":"t","contents":"c"}`
	req := httptest.NewRequest(http.MethodPost, "/board", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.CreatePost(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestBoardHandler_CreatePost_InvalidJSON_Returns400(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	req := httptest.NewRequest(http.MethodPost, "/board", strings.NewReader("{invalid"))
	req = withMemberID(req, "member-1")
	w := httptest.NewRecorder()

	h.CreatePost(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// --- UpdatePost ---

func TestBoardHandler_UpdatePost_Success(t *testing.T) {
	var gotTitleNo int64
	svc := &mockBoardService{
		updatePostFn: func(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error) {
			gotTitleNo = titleNo
			return titleNo, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"title":"更新後","contents":"更新後の本文"}`
	req := httptest.NewRequest(http.MethodPut, "/board/5", strings.NewReader(body))
	req = withMemberID(req, "member-1")
	req = withChiURLParam(req, "titleNo", "5")
	w := httptest.NewRecorder()

	h.UpdatePost(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotTitleNo != 5 {
		t.Errorf("titleNo = %d, want 5", gotTitleNo)
	}

	var resp titleNoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Result || resp.TitleNo != 5 {
		t.Errorf("resp = %+v, want {true, 5}", resp)
	}
}

// 他会員の投稿の更新は403と {result:false} を返すこと
func TestBoardHandler_UpdatePost_Forbidden_Returns403(t *testing.T) {
	svc := &mockBoardService{
		updatePostFn: func(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error) {
			return 0, model.NewForbiddenError(model.KindPost)
		},
	}
	h := NewBoardHandler(svc)

	body := `{"title":"乗っ取り","contents":"本文"}`
	req := httptest.NewRequest(http.MethodPut, "/board/5", strings.NewReader(body))
	req = withMemberID(req, "member-2")
	req = withChiURLParam(req, "titleNo", "5")
	w := httptest.NewRecorder()

	h.UpdatePost(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

// --- DeletePost ---

func TestBoardHandler_DeletePost_Success(t *testing.T) {
	var gotTitleNo int64
	svc := &mockBoardService{
		deletePostFn: func(ctx context.Context, memberID string, titleNo int64) error {
			gotTitleNo = titleNo
			return nil
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/board/3", nil)
	req = withMemberID(req, "member-1")
	req = withChiURLParam(req, "titleNo", "3")
	w := httptest.NewRecorder()

	h.DeletePost(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotTitleNo != 3 {
		t.Errorf("titleNo = %d, want 3", gotTitleNo)
	}
}

func TestBoardHandler_DeletePost_NotFound_Returns404(t *testing.T) {
	svc := &mockBoardService{
		deletePostFn: func(ctx context.Context, memberID string, titleNo int64) error {
			return model.NewPostNotFoundError(titleNo)
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/board/999", nil)
	req = withMemberID(req, "member-1")
	req = withChiURLParam(req, "titleNo", "999")
	w := httptest.NewRecorder()

	h.DeletePost(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
