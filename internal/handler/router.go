package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tglkwon/aquaboard/internal/middleware"
)

// HealthChecker はデータベース接続の疎通を確認するインターフェース。
// *sql.DBがこれを満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.Authenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           middleware.MetricsRecorder

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// サービス
	AccountService AccountServiceInterface
	BoardService   BoardServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 全ルート共通のミドルウェアスタックの実行順序:
//
//	RequestID → SecurityHeaders → CORS → Logging → Metrics → Recovery
//
// 認証が必要なルートにはさらに Token → RateLimit(General) が積まれる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewRecoveryMiddleware())

	memberHandler := NewMemberHandler(deps.AccountService)
	boardHandler := NewBoardHandler(deps.BoardService)
	replyHandler := NewReplyHandler(deps.BoardService)

	// --- 認証不要のルート ---

	// 会員登録・ログイン。ログインにはIP単位のレート制限を積む。
	r.Post("/member", memberHandler.Register)
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/member/login", memberHandler.Login)

	// 投稿・返信の閲覧
	r.Get("/board/{titleNo}", boardHandler.Read)
	r.Get("/board/{titleNo}/reply", replyHandler.List)

	// 運用エンドポイント
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Token → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 投稿一覧
		r.Get("/list", boardHandler.List)

		// 投稿管理
		r.Post("/board", boardHandler.CreatePost)
		r.Route("/board/{titleNo}", func(r chi.Router) {
			r.Put("/", boardHandler.UpdatePost)
			r.Delete("/", boardHandler.DeletePost)

			// 返信管理
			r.Post("/reply", replyHandler.Create)
			r.Route("/reply/{replyNo}", func(r chi.Router) {
				r.Put("/", replyHandler.Update)
				r.Delete("/", replyHandler.Delete)
			})
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				middleware.WriteFailure(w, http.StatusServiceUnavailable)
				return
			}
		}
		writeJSON(w, resultResponse{Result: true})
	}
}
