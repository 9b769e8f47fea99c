// Package auth はトークン認証と所有者ベースの認可を提供する。
//
// Guardは「トークンから会員を特定→リソースの所有者を参照→比較」の列を
// 1箇所に集約し、投稿・返信の更新・削除の4経路すべてから同一の形で呼ばれる。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tglkwon/aquaboard/internal/model"
)

// TokenVerifier はベアラートークンの検証インターフェース。
// token.Serviceの部分集合として定義する。
type TokenVerifier interface {
	// Verify はトークンを検証し、クレームの会員識別子を返す。
	Verify(tokenString string) (string, error)
}

// OwnerFinder はリソース所有者の参照インターフェース。
// 変更系の呼び出しではrepository.BoardTxが渡され、
// 所有者参照と変更が同一トランザクションに閉じる。
type OwnerFinder interface {
	// FindOwner は対象リソースの所有者（会員ID）を返す。
	// リソースが存在しない場合は空文字列を返す。
	FindOwner(ctx context.Context, kind model.ResourceKind, no int64) (string, error)
}

// MetricsRecorder は認可拒否の記録インターフェース。
type MetricsRecorder interface {
	RecordAuthzDenied(kind model.ResourceKind, reason string)
}

// Guard は認証と認可の判定を行う。
type Guard struct {
	verifier TokenVerifier
	metrics  MetricsRecorder
}

// NewGuard はGuardを生成する。
func NewGuard(verifier TokenVerifier, metrics MetricsRecorder) *Guard {
	return &Guard{
		verifier: verifier,
		metrics:  metrics,
	}
}

// Authenticate はベアラートークンを検証し、認証済み会員IDを返す。
// トークンの欠落・形式不正・署名不一致はすべてUNAUTHENTICATEDとして扱う。
// 以後の処理はここで返された会員IDを使い、トークンを再デコードしない。
func (g *Guard) Authenticate(tokenString string) (string, error) {
	memberID, err := g.verifier.Verify(tokenString)
	if err != nil {
		return "", model.NewUnauthenticatedError()
	}

	return memberID, nil
}

// Authorize は対象リソースの所有者を参照し、認証済み会員IDと比較する。
//
// 結果は3値で、呼び出し側で必ず区別される:
//   - リソースが存在しない → POST_NOT_FOUND / REPLY_NOT_FOUND
//   - 所有者が一致しない   → FORBIDDEN
//   - 一致               → nil
//
// ゼロ行の参照結果は所有者不一致と混同してはならない。
// ownersにはリソースを変更するトランザクション自身を渡すこと。
func (g *Guard) Authorize(ctx context.Context, memberID string, kind model.ResourceKind, no int64, owners OwnerFinder) error {
	owner, err := owners.FindOwner(ctx, kind, no)
	if err != nil {
		return fmt.Errorf("failed to resolve resource owner: %w", err)
	}

	if owner == "" {
		slog.Warn("authorization denied: resource not found",
			slog.String("member_id", memberID),
			slog.String("kind", string(kind)),
			slog.Int64("no", no),
		)
		if g.metrics != nil {
			g.metrics.RecordAuthzDenied(kind, "not_found")
		}
		return notFoundError(kind, no)
	}

	if owner != memberID {
		slog.Warn("authorization denied: owner mismatch",
			slog.String("member_id", memberID),
			slog.String("kind", string(kind)),
			slog.Int64("no", no),
		)
		if g.metrics != nil {
			g.metrics.RecordAuthzDenied(kind, "forbidden")
		}
		return model.NewForbiddenError(kind)
	}

	return nil
}

// notFoundError はリソース種別に応じた未検出エラーを返す。
func notFoundError(kind model.ResourceKind, no int64) error {
	if kind == model.KindReply {
		return model.NewReplyNotFoundError(no)
	}
	return model.NewPostNotFoundError(no)
}
