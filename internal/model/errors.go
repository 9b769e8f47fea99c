package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ワイヤ上のレスポンスは互換性のため {result:false} に固定されるが、
// エラー種別の区別はログとHTTPステータスのためにここで保持する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, board, member, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodePostNotFound    = "POST_NOT_FOUND"
	ErrCodeReplyNotFound   = "REPLY_NOT_FOUND"
	ErrCodeDuplicateMember = "DUPLICATE_MEMBER"
)

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   "必須フィールドをすべて指定してください。",
	}
}

// NewInvalidNumberError は数値パラメータが不正な場合のエラーを生成する。
func NewInvalidNumberError(param string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("数値パラメータが不正です: %s", param),
		Category: "validation",
		Action:   "正の整数を指定してください。",
	}
}

// NewUnauthenticatedError はトークン未提示・検証失敗・ログイン失敗のエラーを生成する。
// 認証失敗の理由は意図的に区別しない。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewForbiddenError は他の会員が所有するリソースへの変更要求のエラーを生成する。
func NewForbiddenError(kind ResourceKind) *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  fmt.Sprintf("このリソースを変更する権限がありません: %s", kind),
		Category: "auth",
		Action:   "自分が作成した投稿・返信のみ変更できます。",
	}
}

// NewPostNotFoundError は投稿未検出エラーを生成する。
// 所有者不一致(FORBIDDEN)とは必ず区別される。
func NewPostNotFoundError(titleNo int64) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %d", titleNo),
		Category: "board",
		Action:   "投稿番号を確認してください。",
	}
}

// NewReplyNotFoundError は返信未検出エラーを生成する。
func NewReplyNotFoundError(replyNo int64) *APIError {
	return &APIError{
		Code:     ErrCodeReplyNotFound,
		Message:  fmt.Sprintf("指定された返信が見つかりません: %d", replyNo),
		Category: "board",
		Action:   "返信番号を確認してください。",
	}
}

// NewDuplicateMemberError は会員ID重複エラーを生成する。
// ストアの一意制約違反をこのエラーにマッピングする。
func NewDuplicateMemberError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateMember,
		Message:  fmt.Sprintf("この会員IDは既に使用されています: %s", id),
		Category: "member",
		Action:   "別の会員IDで登録してください。",
	}
}
