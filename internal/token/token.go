// Package token は会員識別子を運ぶ署名付きベアラートークンの発行と検証を提供する。
//
// トークンはHMAC-SHA256で署名されたクレームペイロード { id } であり、
// ストアには永続化されない。有効期限は設けず、署名検証の成否のみで有効性を判断する。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークンが欠落・不正・署名検証失敗のいずれかであることを示す。
var ErrInvalidToken = errors.New("invalid token")

// Service はトークンの署名と検証を行う。
type Service struct {
	secret []byte
}

// NewService はServiceを生成する。
// secretは署名鍵で、設定から外部供給される。
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Sign は会員識別子をクレーム { id } として署名し、トークン文字列を返す。
func (s *Service) Sign(memberID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  memberID,
		"iat": jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify はトークンを検証し、クレームの会員識別子を返す。
// 空文字列・形式不正・署名不一致はすべてErrInvalidTokenを返す。
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	memberID, ok := claims["id"].(string)
	if !ok || memberID == "" {
		return "", ErrInvalidToken
	}

	return memberID, nil
}
