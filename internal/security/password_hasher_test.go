package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_ImplementsInterface(t *testing.T) {
	var _ PasswordHasherService = (*passwordHasher)(nil)
}

func TestPasswordHasher_HashAndVerify_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !h.Verify(hash, "correct-password") {
		t.Error("expected password to verify against its own hash")
	}
	if h.Verify(hash, "wrong-password") {
		t.Error("expected wrong password to fail verification")
	}
}

// ハッシュに平文パスワードが含まれないこと
func TestPasswordHasher_Hash_DoesNotContainPlaintext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if strings.Contains(hash, "my-secret-password") {
		t.Error("hash should not contain the plaintext password")
	}
}

// 同一パスワードでもソルトにより毎回異なるハッシュが生成されること
func TestPasswordHasher_Hash_ProducesDistinctHashes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	h1, err := h.Hash("password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	h2, err := h.Hash("password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (salted)")
	}
}

// 範囲外のコストはデフォルトコストに丸められること
func TestNewPasswordHasher_OutOfRangeCost_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{"負のコスト", -1},
		{"最大超過", bcrypt.MaxCost + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPasswordHasher(tt.cost)
			if h.cost != bcrypt.DefaultCost {
				t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
			}
		})
	}
}

func TestPasswordHasher_Verify_InvalidHash_ReturnsFalse(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	if h.Verify("not-a-bcrypt-hash", "password") {
		t.Error("expected verification against invalid hash to fail")
	}
}
