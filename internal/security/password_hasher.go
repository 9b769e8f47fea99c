package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasherService はパスワードの一方向ハッシュ化と照合のインターフェースを定義する。
// 会員登録時のハッシュ生成とログイン時の照合に使用される。
type PasswordHasherService interface {
	// Hash は平文パスワードのbcryptハッシュを生成する。
	Hash(password string) (string, error)

	// Verify は平文パスワードが保存済みハッシュと一致するかを返す。
	// 照合はbcryptの定数時間比較で行われる。
	Verify(hash, password string) bool
}

// passwordHasher はPasswordHasherServiceのbcrypt実装。
type passwordHasher struct {
	cost int
}

// NewPasswordHasher はPasswordHasherServiceの新しいインスタンスを生成する。
// costはbcryptのコストパラメータで、範囲外の値はbcrypt.DefaultCostに丸める。
func NewPasswordHasher(cost int) *passwordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordHasher{cost: cost}
}

// Hash は平文パスワードのbcryptハッシュを生成する。
func (h *passwordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Verify は平文パスワードが保存済みハッシュと一致するかを返す。
func (h *passwordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
