package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tglkwon/aquaboard/internal/middleware"
)

// AccountServiceInterface は会員ハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// Register は会員を登録する。
	Register(ctx context.Context, id, password, nickname string) error
	// Login は会員を認証し、署名付きトークンを返す。
	Login(ctx context.Context, id, password string) (string, error)
}

// MemberHandler は会員登録・ログインのHTTPハンドラー。
type MemberHandler struct {
	service AccountServiceInterface
}

// NewMemberHandler はMemberHandlerを生成する。
func NewMemberHandler(service AccountServiceInterface) *MemberHandler {
	return &MemberHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// registerRequest は会員登録リクエストのボディ。
type registerRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// resultResponse は成功のみを伝えるレスポンス。
type resultResponse struct {
	Result bool `json:"result"`
}

// loginResponse はログイン成功のレスポンス。
type loginResponse struct {
	Result bool   `json:"result"`
	Token  string `json:"token"`
}

// Register は会員を登録する。
// POST /member
// 登録失敗は他のエンドポイントと異なり非2xxステータスを返す。
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	if err := h.service.Register(r.Context(), req.ID, req.Password, req.Nickname); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, resultResponse{Result: true})
}

// Login は会員を認証してトークンを発行する。
// POST /member/login
func (h *MemberHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest)
		return
	}

	tokenString, err := h.service.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, loginResponse{Result: true, Token: tokenString})
}
