// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は投稿・返信の本文とタイトルをサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はテキストのサニタイズ機能のインターフェースを定義する。
// 投稿・返信の保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeText はタイトル・ニックネームなどの単一行テキストをサニタイズする。
	// すべてのHTMLタグを除去し、プレーンテキストのみを残す。
	SanitizeText(raw string) string

	// SanitizeContents は投稿本文・返信本文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, ul, ol, li, blockquote, pre, code, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeContents(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	textPolicy     *bluemonday.Policy
	contentsPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのポリシーを構築する。
// ポリシーの内容:
//   - 単一行テキスト: 全タグ除去（StrictPolicy）
//   - 本文: p, br, ul, ol, li, blockquote, pre, code, strong, em のみ許可
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// 本文用の許可タグ（属性なしのシンプルなタグ）
	// script, iframe, style等は許可リストに含めないことで自動的に除去される
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	return &contentSanitizer{
		textPolicy:     bluemonday.StrictPolicy(),
		contentsPolicy: p,
	}
}

// SanitizeText は単一行テキストから全HTMLタグを除去する。
func (s *contentSanitizer) SanitizeText(raw string) string {
	return s.textPolicy.Sanitize(raw)
}

// SanitizeContents は本文をサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeContents(raw string) string {
	return s.contentsPolicy.Sanitize(raw)
}
