package model

import "time"

// ResourceKind は所有者確認の対象となるリソース種別を表す。
type ResourceKind string

const (
	// KindPost は掲示板の投稿（board_textテーブル）を示す。
	KindPost ResourceKind = "board_text"
	// KindReply は投稿への返信（board_replyテーブル）を示す。
	KindReply ResourceKind = "board_reply"
)

// PostSummary は投稿一覧の1行を表す。
// 一覧表示に必要な列のみを持ち、本文は含まない。
type PostSummary struct {
	TitleNo  int64
	Title    string
	Nickname string
	Datetime time.Time
}

// PostDetail は投稿の詳細を表す。
// 投稿者のニックネームをmemberテーブルから結合した結果を保持する。
type PostDetail struct {
	Nickname string
	Title    string
	Contents string
	Datetime time.Time
}

// ReplyDetail は返信の詳細を表す。
// 返信者のニックネームをmemberテーブルから結合した結果を保持する。
type ReplyDetail struct {
	ReplyNo  int64
	Nickname string
	Reply    string
	Datetime time.Time
}
