// Package account は会員登録とログインのドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tglkwon/aquaboard/internal/model"
	"github.com/tglkwon/aquaboard/internal/repository"
	"github.com/tglkwon/aquaboard/internal/security"
)

// TokenSigner はトークン発行のインターフェース。
// token.Serviceの部分集合として定義する。
type TokenSigner interface {
	// Sign は会員識別子をクレーム { id } として署名したトークンを返す。
	Sign(memberID string) (string, error)
}

// Service は会員管理のサービス層。
// 登録とログインのビジネスロジックを提供する。
type Service struct {
	members   repository.MemberRepository
	hasher    security.PasswordHasherService
	tokens    TokenSigner
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	members repository.MemberRepository,
	hasher security.PasswordHasherService,
	tokens TokenSigner,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		members:   members,
		hasher:    hasher,
		tokens:    tokens,
		sanitizer: sanitizer,
	}
}

// Register は会員を登録する。
// id・password・nicknameはすべて必須。パスワードはハッシュ化して保存し、
// 会員IDの重複はリポジトリがDUPLICATE_MEMBERとして返す。
func (s *Service) Register(ctx context.Context, id, password, nickname string) error {
	if id == "" {
		return model.NewMissingFieldError("id")
	}
	if password == "" {
		return model.NewMissingFieldError("password")
	}
	if nickname == "" {
		return model.NewMissingFieldError("nickname")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	member := &model.Member{
		ID:           id,
		PasswordHash: hash,
		Nickname:     s.sanitizer.SanitizeText(nickname),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return err
	}

	slog.Info("member registered",
		slog.String("member_id", id),
	)

	return nil
}

// Login は会員を認証し、署名付きトークンを発行して返す。
// 会員が存在しない場合はハッシュ照合に進む前にUNAUTHENTICATEDで打ち切る。
// 未登録IDとパスワード不一致はどちらも同じUNAUTHENTICATEDとして返し、区別しない。
func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	if id == "" {
		return "", model.NewMissingFieldError("id")
	}
	if password == "" {
		return "", model.NewMissingFieldError("password")
	}

	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		slog.Warn("login failed: member not found",
			slog.String("member_id", id),
		)
		return "", model.NewUnauthenticatedError()
	}

	if !s.hasher.Verify(member.PasswordHash, password) {
		slog.Warn("login failed: password mismatch",
			slog.String("member_id", id),
		)
		return "", model.NewUnauthenticatedError()
	}

	tokenString, err := s.tokens.Sign(member.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("member logged in",
		slog.String("member_id", id),
	)

	return tokenString, nil
}
