package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tglkwon/aquaboard/internal/model"
)

// PostgresBoardRepo はPostgreSQLを使用した投稿・返信リポジトリ。
// 投稿削除時の返信連鎖削除が両テーブルにまたがるため、1つのリポジトリで扱う。
type PostgresBoardRepo struct {
	db *sql.DB
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

// ListPosts は投稿一覧をtitle_no降順で返す。
// 投稿者が退会等で存在しない場合もニックネームを空文字列として行を返す。
func (r *PostgresBoardRepo) ListPosts(ctx context.Context, offset, limit int) ([]model.PostSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT board_text.title_no, board_text.title, COALESCE(member.nickname, ''), board_text.datetime
		 FROM board_text LEFT JOIN member ON member.id = board_text.id
		 ORDER BY board_text.title_no DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.PostSummary{}
	for rows.Next() {
		var p model.PostSummary
		if err := rows.Scan(&p.TitleNo, &p.Title, &p.Nickname, &p.Datetime); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}

	return posts, nil
}

// CountPosts は投稿の総数を返す。
func (r *PostgresBoardRepo) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM board_text`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

// FindPost は指定番号の投稿を投稿者ニックネーム付きで取得する。見つからない場合はnilを返す。
func (r *PostgresBoardRepo) FindPost(ctx context.Context, titleNo int64) (*model.PostDetail, error) {
	post := &model.PostDetail{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(member.nickname, ''), board_text.title, board_text.contents, board_text.datetime
		 FROM board_text LEFT JOIN member ON member.id = board_text.id
		 WHERE board_text.title_no = $1`,
		titleNo,
	).Scan(&post.Nickname, &post.Title, &post.Contents, &post.Datetime)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

// CreatePost は投稿を作成し、ストアが採番したtitle_noを返す。
func (r *PostgresBoardRepo) CreatePost(ctx context.Context, memberID, title, contents string) (int64, error) {
	var titleNo int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO board_text (id, title, contents) VALUES ($1, $2, $3) RETURNING title_no`,
		memberID, title, contents,
	).Scan(&titleNo)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	return titleNo, nil
}

// ListReplies は指定投稿の返信を挿入順で返す。
func (r *PostgresBoardRepo) ListReplies(ctx context.Context, titleNo int64) ([]model.ReplyDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT board_reply.reply_no, COALESCE(member.nickname, ''), board_reply.reply, board_reply.datetime
		 FROM board_reply LEFT JOIN member ON member.id = board_reply.id
		 WHERE board_reply.title_no = $1
		 ORDER BY board_reply.reply_no ASC`,
		titleNo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	replies := []model.ReplyDetail{}
	for rows.Next() {
		var rep model.ReplyDetail
		if err := rows.Scan(&rep.ReplyNo, &rep.Nickname, &rep.Reply, &rep.Datetime); err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		replies = append(replies, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reply rows: %w", err)
	}

	return replies, nil
}

// CreateReply は返信を作成する。親投稿の存在は確認しない。
func (r *PostgresBoardRepo) CreateReply(ctx context.Context, titleNo int64, memberID, reply string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO board_reply (id, reply, title_no) VALUES ($1, $2, $3)`,
		memberID, reply, titleNo,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reply: %w", err)
	}

	return nil
}

// Begin は所有者確認付き変更のためのトランザクションを開始する。
// リクエストのコンテキストがキャンセルされた場合、未コミットの変更はロールバックされる。
func (r *PostgresBoardRepo) Begin(ctx context.Context) (BoardTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &postgresBoardTx{tx: tx}, nil
}

// postgresBoardTx はBoardTxのPostgreSQL実装。
type postgresBoardTx struct {
	tx *sql.Tx
}

// FindOwner は対象リソースの所有者を返す。存在しない場合は空文字列を返す。
// FOR UPDATEで行をロックし、所有者確認から変更までの間の競合を防ぐ。
func (t *postgresBoardTx) FindOwner(ctx context.Context, kind model.ResourceKind, no int64) (string, error) {
	var query string
	switch kind {
	case model.KindPost:
		query = `SELECT id FROM board_text WHERE title_no = $1 FOR UPDATE`
	case model.KindReply:
		query = `SELECT id FROM board_reply WHERE reply_no = $1 FOR UPDATE`
	default:
		return "", fmt.Errorf("unknown resource kind: %s", kind)
	}

	var owner string
	err := t.tx.QueryRowContext(ctx, query, no).Scan(&owner)
	if err == sql.ErrNoRows {
		// ゼロ行はエラーではなく「未検出」として呼び出し側に返す
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find owner: %w", err)
	}

	return owner, nil
}

// UpdatePost は投稿のタイトルと本文のみを更新する。
func (t *postgresBoardTx) UpdatePost(ctx context.Context, titleNo int64, title, contents string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE board_text SET title = $1, contents = $2 WHERE title_no = $3`,
		title, contents, titleNo,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// DeletePostCascade は返信を先に削除してから投稿本体を削除する。
// 2文は同一トランザクション内で実行され、部分削除は観測されない。
func (t *postgresBoardTx) DeletePostCascade(ctx context.Context, titleNo int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM board_reply WHERE title_no = $1`,
		titleNo,
	); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM board_text WHERE title_no = $1`,
		titleNo,
	); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

// UpdateReply は返信本文を更新する。
func (t *postgresBoardTx) UpdateReply(ctx context.Context, replyNo int64, reply string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE board_reply SET reply = $1 WHERE reply_no = $2`,
		reply, replyNo,
	)
	if err != nil {
		return fmt.Errorf("failed to update reply: %w", err)
	}

	return nil
}

// DeleteReply は返信を削除する。
func (t *postgresBoardTx) DeleteReply(ctx context.Context, replyNo int64) error {
	_, err := t.tx.ExecContext(ctx,
		`DELETE FROM board_reply WHERE reply_no = $1`,
		replyNo,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}

	return nil
}

// Commit はトランザクションをコミットする。
func (t *postgresBoardTx) Commit() error {
	return t.tx.Commit()
}

// Rollback はトランザクションをロールバックする。
func (t *postgresBoardTx) Rollback() error {
	return t.tx.Rollback()
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
var _ BoardTx = (*postgresBoardTx)(nil)
