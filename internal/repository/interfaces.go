// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/tglkwon/aquaboard/internal/model"
)

// MemberRepository は会員データの永続化インターフェース。
type MemberRepository interface {
	// Create は会員を作成する。
	// 会員IDが既に存在する場合はmodel.ErrCodeDuplicateMemberのAPIErrorを返す。
	Create(ctx context.Context, member *model.Member) error

	// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Member, error)
}

// BoardTx は所有者確認と変更を同一トランザクション内で行うための境界。
// 認可ガードの「所有者参照→比較→変更」の列を1つのトランザクションに閉じ込め、
// 確認と変更の間にリソースが消える競合を防ぐ。
// CommitまたはRollbackの呼び出しでトランザクションは終了する。
type BoardTx interface {
	// FindOwner は対象リソースの所有者（会員ID）を返す。
	// リソースが存在しない場合はエラーではなく空文字列を返す。
	// 取得した行はトランザクション終了までロックされる。
	FindOwner(ctx context.Context, kind model.ResourceKind, no int64) (string, error)

	// UpdatePost は投稿のタイトルと本文のみを更新する。投稿者とtitle_noは不変。
	UpdatePost(ctx context.Context, titleNo int64, title, contents string) error

	// DeletePostCascade は投稿に属する全返信を削除してから投稿本体を削除する。
	DeletePostCascade(ctx context.Context, titleNo int64) error

	// UpdateReply は返信本文を更新する。
	UpdateReply(ctx context.Context, replyNo int64, reply string) error

	// DeleteReply は返信を削除する。
	DeleteReply(ctx context.Context, replyNo int64) error

	Commit() error
	Rollback() error
}

// BoardRepository は投稿・返信データの永続化インターフェース。
type BoardRepository interface {
	// ListPosts は投稿一覧をtitle_no降順で返す。
	// offsetとlimitは必ずバインドパラメータとして渡される。
	ListPosts(ctx context.Context, offset, limit int) ([]model.PostSummary, error)

	// CountPosts は投稿の総数を返す。
	CountPosts(ctx context.Context) (int64, error)

	// FindPost は指定番号の投稿を投稿者ニックネーム付きで取得する。
	// 見つからない場合はnilを返す。
	FindPost(ctx context.Context, titleNo int64) (*model.PostDetail, error)

	// CreatePost は投稿を作成し、ストアが採番したtitle_noを返す。
	CreatePost(ctx context.Context, memberID, title, contents string) (int64, error)

	// ListReplies は指定投稿の返信を挿入順（reply_no昇順）で返す。
	ListReplies(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error)

	// CreateReply は返信を作成する。親投稿の存在は確認しない。
	CreateReply(ctx context.Context, titleNo int64, memberID, reply string) error

	// Begin は所有者確認付き変更のためのトランザクションを開始する。
	Begin(ctx context.Context) (BoardTx, error)
}
