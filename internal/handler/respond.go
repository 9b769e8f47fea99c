// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tglkwon/aquaboard/internal/middleware"
	"github.com/tglkwon/aquaboard/internal/model"
)

// writeJSON は200 OKでJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// ワイヤ上の失敗ボディは互換性のため常に {result:false} で、
// エラー種別（コード・カテゴリ）はログとステータスコードにのみ現れる。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		slog.Warn("request failed",
			slog.String("code", apiErr.Code),
			slog.String("category", apiErr.Category),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		middleware.WriteFailure(w, mapAPIErrorToHTTPStatus(apiErr))
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	middleware.WriteFailure(w, http.StatusInternalServerError)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodePostNotFound, model.ErrCodeReplyNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateMember:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
