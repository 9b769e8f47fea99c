// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// tokenHeaderName はベアラートークンを運ぶカスタムヘッダー名。
// Authorization: Bearer ではなく独自のtokenヘッダーを使う（既存クライアントとの互換）。
const tokenHeaderName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// memberIDContextKey はリクエストコンテキストに会員IDを格納するためのキー。
var memberIDContextKey = contextKey("member_id")

// Authenticator はトークン検証のインターフェース。
// auth.Guardの部分集合として定義する。
type Authenticator interface {
	// Authenticate はトークンを検証し、認証済み会員IDを返す。
	Authenticate(tokenString string) (string, error)
}

// NewTokenMiddleware はtokenヘッダーのベアラートークンを検証し、
// 認証済み会員IDをリクエストコンテキストに注入するミドルウェアを返す。
// トークンの欠落・不正・署名不一致には401と {result:false} を返す。
func NewTokenMiddleware(authenticator Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get(tokenHeaderName)

			memberID, err := authenticator.Authenticate(tokenString)
			if err != nil {
				slog.Warn("authentication failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				WriteFailure(w, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), memberIDContextKey, memberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MemberIDFromContext はリクエストコンテキストから認証済み会員IDを取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func MemberIDFromContext(ctx context.Context) (string, error) {
	memberID, ok := ctx.Value(memberIDContextKey).(string)
	if !ok || memberID == "" {
		return "", fmt.Errorf("member ID not found in context")
	}
	return memberID, nil
}

// ContextWithMemberID はコンテキストに会員IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, memberIDContextKey, memberID)
}

// WriteFailure は互換性の失敗レスポンス {result:false} を書き込む。
// エラー種別の詳細はワイヤには載せず、ログとステータスコードのみで区別する。
func WriteFailure(w http.ResponseWriter, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]bool{"result": false})
}
