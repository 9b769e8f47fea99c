// Package model はドメインモデルを定義する。
package model

// Member はサービスの会員を表す。
// IDは会員が登録時に選ぶ一意の識別子で、以後変更されない。
type Member struct {
	ID           string
	PasswordHash string
	Nickname     string
}
