package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tglkwon/aquaboard/internal/middleware"
)

// ReplyHandler は返信管理のHTTPハンドラー。
type ReplyHandler struct {
	service BoardServiceInterface
}

// NewReplyHandler はReplyHandlerを生成する。
func NewReplyHandler(service BoardServiceInterface) *ReplyHandler {
	return &ReplyHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// replyDetailResponse は返信一覧の1行のレスポンス。
type replyDetailResponse struct {
	ReplyNo  int64     `json:"reply_no"`
	Nickname string    `json:"nickname"`
	Reply    string    `json:"reply"`
	Datetime time.Time `json:"datetime"`
}

// replyListResponse は返信一覧のレスポンス。
type replyListResponse struct {
	Result bool                  `json:"result"`
	Reply  []replyDetailResponse `json:"reply"`
}

// replyRequest は返信の作成・更新リクエストのボディ。
type replyRequest struct {
	Reply string `json:"reply"`
}

// List は指定投稿の返信一覧を取得する。認証不要。
// GET /board/:titleNo/reply
func (h *ReplyHandler) List(w http.ResponseWriter, r *http.Request) {
	titleNo, err := numberParam(r, "titleNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	replies, err := h.service.ListReplies(r.Context(), titleNo)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	list := make([]replyDetailResponse, 0, len(replies))
	for _, rep := range replies {
		list = append(list, replyDetailResponse{
			ReplyNo:  rep.ReplyNo,
			Nickname: rep.Nickname,
			Reply:    rep.Reply,
			Datetime: rep.Datetime,
		})
	}

	writeJSON(w, replyListResponse{Result: true, Reply: list})
}

// Create は返信を作成する。
// POST /board/:titleNo/reply
func (h *ReplyHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	if err := h.service.CreateReply(r.Context(), memberID, titleNo, req.Reply); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, resultResponse{Result: true})
}

// Update は返信本文を更新する。
// PUT /board/:titleNo/reply/:replyNo
func (h *ReplyHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := middleware.MemberIDFromContext(r.Context())
	if err != nil {
		middleware.WriteFailure(w, http.StatusUnauthorized)
		return
	}

	replyNo, err := numberParam(r, "replyNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateReply(r.Context(), memberID, replyNo, req.Reply); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, resultResponse{Result: true})
}

// Delete は返信を削除する。
// DELETE /board/:titleNo/reply/:replyNo
// titleNoとreplyNoの両方が有効な数値であることを要求する。
func (h *ReplyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	replyNo, err := numberParam(r, "replyNo")
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.DeleteReply(r.Context(), memberID, titleNo, replyNo); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, resultResponse{Result: true})
}
