package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tglkwon/aquaboard/internal/model"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const pgUniqueViolation = "23505"

// PostgresMemberRepo はPostgreSQLを使用した会員リポジトリ。
type PostgresMemberRepo struct {
	db *sql.DB
}

// NewPostgresMemberRepo はPostgresMemberRepoを生成する。
func NewPostgresMemberRepo(db *sql.DB) *PostgresMemberRepo {
	return &PostgresMemberRepo{db: db}
}

// Create は会員を作成する。
// 主キー重複はストアの一意制約違反として検出し、汎用エラーではなく
// DUPLICATE_MEMBERのAPIErrorにマッピングする。
func (r *PostgresMemberRepo) Create(ctx context.Context, member *model.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO member (id, password, nickname) VALUES ($1, $2, $3)`,
		member.ID, member.PasswordHash, member.Nickname,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return model.NewDuplicateMemberError(member.ID)
		}
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return nil
}

// FindByID は指定IDの会員を取得する。見つからない場合はnilを返す。
func (r *PostgresMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	member := &model.Member{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, password, nickname FROM member WHERE id = $1`,
		id,
	).Scan(&member.ID, &member.PasswordHash, &member.Nickname)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member by ID: %w", err)
	}

	return member, nil
}

// compile-time interface check
var _ MemberRepository = (*PostgresMemberRepo)(nil)
