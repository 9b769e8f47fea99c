package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tglkwon/aquaboard/internal/middleware"
	"github.com/tglkwon/aquaboard/internal/model"
)

// BoardServiceInterface は掲示板ハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	// List は投稿一覧と投稿総数を返す。
	List(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error)
	// Read は投稿を投稿者ニックネーム付きで返す。
	Read(ctx context.Context, titleNo int64) (*model.PostDetail, error)
	// CreatePost は投稿を作成し、採番されたtitle_noを返す。
	CreatePost(ctx context.Context, memberID, title, contents string) (int64, error)
	// UpdatePost は投稿のタイトルと本文を更新する。
	UpdatePost(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error)
	// DeletePost は投稿と全返信を削除する。
	DeletePost(ctx context.Context, memberID string, titleNo int64) error
	// ListReplies は指定投稿の返信一覧を返す。
	ListReplies(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error)
	// CreateReply は返信を作成する。
	CreateReply(ctx context.Context, memberID string, titleNo int64, reply string) error
	// UpdateReply は返信本文を更新する。
	UpdateReply(ctx context.Context, memberID string, replyNo int64, reply string) error
	// DeleteReply は返信を削除する。
	DeleteReply(ctx context.Context, memberID string, titleNo, replyNo int64) error
}

// BoardHandler は投稿管理のHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// postSummaryResponse は投稿一覧の1行のレスポンス。
// JSONキー名は既存クライアントとの互換のため列名に合わせる。
type postSummaryResponse struct {
	TitleNo  int64     `json:"title_no"`
	Title    string    `json:"title"`
	Nickname string    `json:"nickname"`
	Datetime time.Time `json:"datetime"`
}

// listResponse は投稿一覧のレスポンス。
// maxTitleNoはページ番号によらない投稿の総数。
type listResponse struct {
	Result     bool                  `json:"result"`
	List       []postSummaryResponse `json:"list"`
	MaxTitleNo int64                 `json:"maxTitleNo"`
}

// postDetailResponse は投稿詳細の1行のレスポンス。
type postDetailResponse struct {
	Nickname string    `json:"nickname"`
	Title    string    `json:"title"`
	Contents string    `json:"contents"`
	Datetime time.Time `json:"datetime"`
}

// readResponse は投稿詳細のレスポンス。
type readResponse struct {
	Result bool                 `json:"result"`
	Read   []postDetailResponse `json:"read"`
}

// postRequest は投稿の作成・更新リクエストのボディ。
type postRequest struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

// titleNoResponse は採番済み投稿番号を含むレスポンス。
type titleNoResponse struct {
	Result  bool  `json:"result"`
	TitleNo int64 `json:"titleNo"`
}

// List は投稿一覧を取得する。
// GET /list?pageNo=N
// 0以下・数値でないページ番号は1ページ目に正規化する。
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	pageNo, err := strconv.Atoi(r.URL.Query().Get("pageNo"))
	if err != nil || pageNo < 1 {
		pageNo = 1
	}

	posts, count, err := h.service.List(r.Context(), pageNo)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	list := make([]postSummaryResponse, 0, len(posts))
	for _, p := range posts {
		list = append(list, postSummaryResponse{
			TitleNo:  p.TitleNo,
			Title:    p.Title,
			Nickname: p.Nickname,
			Datetime: p.Datetime,
		})
	}

	writeJSON(w, listResponse{Result: true, List: list, MaxTitleNo: count})
}

// Read は投稿詳細を取得する。認証不要。
// GET /board/:titleNo
func (h *BoardHandler) Read(w http.ResponseWriter, r *http.Request) {
	titleNo, err := numberParam(r, "titleNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	post, err := h.service.Read(r.Context(), titleNo)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, readResponse{
		Result: true,
		Read: []postDetailResponse{{
			Nickname: post.Nickname,
			Title:    post.Title,
			Contents: post.Contents,
			Datetime: post.Datetime,
		}},
	})
}

// CreatePost は投稿を作成する。
// POST /board
func (h *BoardHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		middleware.WriteFailure(w, http.StatusUnauthorized)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	titleNo, err := h.service.CreatePost(r.Context(), memberID, req.Title, req.Contents)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, titleNoResponse{Result: true, TitleNo: titleNo})
}

// UpdatePost は投稿のタイトルと本文を更新する。
// PUT /board/:titleNo
func (h *BoardHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		middleware.WriteFailure(w, http.StatusUnauthorized)
		return
	}

	titleNo, err := numberParam(r, "titleNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	titleNo, err = h.service.UpdatePost(r.Context(), memberID, titleNo, req.Title, req.Contents)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, titleNoResponse{Result: true, TitleNo: titleNo})
}

// DeletePost は投稿と全返信を削除する。
// DELETE /board/:titleNo
func (h *BoardHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		middleware.WriteFailure(w, http.StatusUnauthorized)
		return
	}

	titleNo, err := numberParam(r, "titleNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.DeletePost(r.Context(), memberID, titleNo); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, resultResponse{Result: true})
}

// numberParam はURLパラメータを正の整数として解釈する。
// 数値でない・0以下の値はINVALID_INPUTのAPIErrorを返す。
func numberParam(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v < 1 {
		return 0, model.NewInvalidNumberError(name)
	}
	return v, nil
}
