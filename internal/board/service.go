// Package board は掲示板の投稿・返信のドメインロジックを提供する。
package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tglkwon/aquaboard/internal/auth"
	"github.com/tglkwon/aquaboard/internal/model"
	"github.com/tglkwon/aquaboard/internal/repository"
	"github.com/tglkwon/aquaboard/internal/security"
)

// defaultPageSize は投稿一覧の1ページあたりの件数（デフォルト）。
const defaultPageSize = 10

// Guard は変更系操作の認可判定インターフェース。
// auth.Guardの部分集合として定義する。
type Guard interface {
	Authorize(ctx context.Context, memberID string, kind model.ResourceKind, no int64, owners auth.OwnerFinder) error
}

// MetricsRecorder は投稿・返信の作成数の記録インターフェース。
type MetricsRecorder interface {
	RecordPostCreated()
	RecordReplyCreated()
}

// Service は掲示板のサービス層。
// 変更系の操作ではすべての経路で認可ガードを適用する。
type Service struct {
	repo      repository.BoardRepository
	guard     Guard
	sanitizer security.ContentSanitizerService
	metrics   MetricsRecorder
	pageSize  int
}

// NewService はServiceの新しいインスタンスを生成する。
// pageSizeが0以下の場合はデフォルト値を使用する。
func NewService(
	repo repository.BoardRepository,
	guard Guard,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
	pageSize int,
) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{
		repo:      repo,
		guard:     guard,
		sanitizer: sanitizer,
		metrics:   metrics,
		pageSize:  pageSize,
	}
}

// List は投稿一覧をtitle_no降順のページ単位で返す。
// 0以下のページ番号は1ページ目に正規化する。
// オフセットは検証済みの数値としてバインドパラメータで渡され、
// クエリ文字列に連結されることはない。
// 2番目の戻り値はページ番号によらない投稿の総数（maxTitleNo）。
func (s *Service) List(ctx context.Context, pageNo int) ([]model.PostSummary, int64, error) {
	if pageNo < 1 {
		pageNo = 1
	}
	offset := (pageNo - 1) * s.pageSize

	posts, err := s.repo.ListPosts(ctx, offset, s.pageSize)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.CountPosts(ctx)
	if err != nil {
		return nil, 0, err
	}

	return posts, count, nil
}

// Read は投稿を投稿者ニックネーム付きで返す。認証不要。
// 投稿が存在しない場合は空の結果ではなくPOST_NOT_FOUNDを返す。
func (s *Service) Read(ctx context.Context, titleNo int64) (*model.PostDetail, error) {
	post, err := s.repo.FindPost(ctx, titleNo)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(titleNo)
	}

	return post, nil
}

// CreatePost は認証済み会員の投稿を作成し、採番されたtitle_noを返す。
// 投稿者はトークン由来の会員IDであり、リクエストボディからは受け取らない。
func (s *Service) CreatePost(ctx context.Context, memberID, title, contents string) (int64, error) {
	if title == "" {
		return 0, model.NewMissingFieldError("title")
	}
	if contents == "" {
		return 0, model.NewMissingFieldError("contents")
	}

	titleNo, err := s.repo.CreatePost(ctx,
		memberID,
		s.sanitizer.SanitizeText(title),
		s.sanitizer.SanitizeContents(contents),
	)
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordPostCreated()
	}
	slog.Info("post created",
		slog.String("member_id", memberID),
		slog.Int64("title_no", titleNo),
	)

	return titleNo, nil
}

// UpdatePost は投稿のタイトルと本文を更新する。投稿者とtitle_noは不変。
// 所有者確認と更新は同一トランザクション内で行う。
func (s *Service) UpdatePost(ctx context.Context, memberID string, titleNo int64, title, contents string) (int64, error) {
	if title == "" {
		return 0, model.NewMissingFieldError("title")
	}
	if contents == "" {
		return 0, model.NewMissingFieldError("contents")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := s.guard.Authorize(ctx, memberID, model.KindPost, titleNo, tx); err != nil {
		return 0, err
	}

	if err := tx.UpdatePost(ctx, titleNo,
		s.sanitizer.SanitizeText(title),
		s.sanitizer.SanitizeContents(contents),
	); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return titleNo, nil
}

// DeletePost は投稿と、その投稿に属する全返信を削除する。
// 返信削除→投稿削除の2文と所有者確認を1つのトランザクションに閉じ込める。
func (s *Service) DeletePost(ctx context.Context, memberID string, titleNo int64) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.guard.Authorize(ctx, memberID, model.KindPost, titleNo, tx); err != nil {
		return err
	}

	if err := tx.DeletePostCascade(ctx, titleNo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("post deleted",
		slog.String("member_id", memberID),
		slog.Int64("title_no", titleNo),
	)

	return nil
}

// ListReplies は指定投稿の返信一覧を挿入順で返す。認証不要。
// 投稿が存在しない場合も空の一覧を返す。
func (s *Service) ListReplies(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error) {
	return s.repo.ListReplies(ctx, titleNo)
}

// CreateReply は認証済み会員の返信を作成する。
// 親投稿の存在は確認しない（現行の寛容な挙動を維持する）。
func (s *Service) CreateReply(ctx context.Context, memberID string, titleNo int64, reply string) error {
	if reply == "" {
		return model.NewMissingFieldError("reply")
	}

	if err := s.repo.CreateReply(ctx, titleNo, memberID, s.sanitizer.SanitizeContents(reply)); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordReplyCreated()
	}
	slog.Info("reply created",
		slog.String("member_id", memberID),
		slog.Int64("title_no", titleNo),
	)

	return nil
}

// UpdateReply は返信本文を更新する。
// 所有者確認と更新は同一トランザクション内で行う。
func (s *Service) UpdateReply(ctx context.Context, memberID string, replyNo int64, reply string) error {
	if reply == "" {
		return model.NewMissingFieldError("reply")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.guard.Authorize(ctx, memberID, model.KindReply, replyNo, tx); err != nil {
		return err
	}

	if err := tx.UpdateReply(ctx, replyNo, s.sanitizer.SanitizeContents(reply)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteReply は返信を削除する。
// titleNoは経路の互換性のため受け取るが、認可はreplyNoの所有者で判定する。
func (s *Service) DeleteReply(ctx context.Context, memberID string, titleNo, replyNo int64) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.guard.Authorize(ctx, memberID, model.KindReply, replyNo, tx); err != nil {
		return err
	}

	if err := tx.DeleteReply(ctx, replyNo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("reply deleted",
		slog.String("member_id", memberID),
		slog.Int64("reply_no", replyNo),
	)

	return nil
}
