package repository

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// PostgresBookRepoはBookRepositoryインターフェースを満たすことを検証
func TestPostgresBookRepo_ImplementsInterface(t *testing.T) {
	var _ BookRepository = (*PostgresBookRepo)(nil)
}

// PostgresOrderRepoはOrderRepositoryインターフェースを満たすことを検証
func TestPostgresOrderRepo_ImplementsInterface(t *testing.T) {
	var _ OrderRepository = (*PostgresOrderRepo)(nil)
}

// PostgresRoleRepoはRoleRepositoryインターフェースを満たすことを検証
func TestPostgresRoleRepo_ImplementsInterface(t *testing.T) {
	var _ RoleRepository = (*PostgresRoleRepo)(nil)
}

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// 各コンストラクタが正しく初期化されることを検証
func TestConstructors_Initialize(t *testing.T) {
	if NewPostgresBookRepo(nil) == nil {
		t.Error("NewPostgresBookRepo returned nil")
	}
	if NewPostgresOrderRepo(nil) == nil {
		t.Error("NewPostgresOrderRepo returned nil")
	}
	if NewPostgresRoleRepo(nil) == nil {
		t.Error("NewPostgresRoleRepo returned nil")
	}
	if NewPostgresUserRepo(nil) == nil {
		t.Error("NewPostgresUserRepo returned nil")
	}
	if NewPostgresSessionRepo(nil) == nil {
		t.Error("NewPostgresSessionRepo returned nil")
	}
}

// IsUniqueViolationはpq以外のエラーに対してfalseを返すことを検証
func TestIsUniqueViolation_NonPqError(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true, want false")
	}
	if IsUniqueViolation(errTest) {
		t.Error("IsUniqueViolation(plain error) = true, want false")
	}
}

// IsUniqueViolationはラップされた一意性制約違反エラーを検出することを検証
func TestIsUniqueViolation_WrappedPqError(t *testing.T) {
	pqErr := &pq.Error{Code: "23505"}
	wrapped := fmt.Errorf("failed to create user: %w", pqErr)
	if !IsUniqueViolation(wrapped) {
		t.Error("IsUniqueViolation(wrapped 23505) = false, want true")
	}

	otherErr := &pq.Error{Code: "23503"} // 外部キー制約違反
	if IsUniqueViolation(otherErr) {
		t.Error("IsUniqueViolation(23503) = true, want false")
	}
}

var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "test error" }
