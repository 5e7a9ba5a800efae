package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bookhaven/internal/model"
)

// PostgresRoleRepo はPostgreSQLを使用したロール割り当てリポジトリ。
type PostgresRoleRepo struct {
	db *sql.DB
}

// NewPostgresRoleRepo はPostgresRoleRepoを生成する。
func NewPostgresRoleRepo(db *sql.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{db: db}
}

// HasRole は(user_id, role)に一致する行が存在するかを返す。
// 行の不在は(false, nil)であり、エラーではない。
func (r *PostgresRoleRepo) HasRole(ctx context.Context, userID string, role model.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, string(role),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query role assignment: %w", err)
	}
	return exists, nil
}

// compile-time interface check
var _ RoleRepository = (*PostgresRoleRepo)(nil)
