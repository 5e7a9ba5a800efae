// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bookhaven/internal/model"
)

// BookRepository は書籍データの永続化インターフェース。
type BookRepository interface {
	// ListAll は全書籍をcreated_at降順で取得する。
	// 同時刻のレコードの順序はストアの挿入順に従う（1回のフェッチ内では安定）。
	ListAll(ctx context.Context) ([]model.Book, error)

	// Create は書籍を作成する。
	Create(ctx context.Context, book *model.Book) error

	// DeleteByID は指定IDの書籍を削除し、影響行数を返す。
	// 該当行が存在しない場合は(0, nil)を返す。削除は冪等であり、0行はエラーではない。
	DeleteByID(ctx context.Context, id string) (int64, error)

	// CountAll は書籍の総数を返す。
	CountAll(ctx context.Context) (int, error)
}

// OrderRepository は注文データの永続化インターフェース。
// 注文の作成はチェックアウトフロー（対象外）で行われるため、読み取りのみを定義する。
type OrderRepository interface {
	// ListByUserID は指定ユーザーの注文をcreated_at降順で取得する。
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll は全注文をcreated_at降順で取得する。管理者統計用。
	ListAll(ctx context.Context) ([]model.Order, error)
}

// RoleRepository はロール割り当ての永続化インターフェース。
// 割り当ての作成・削除は管理プロビジョニング（対象外）で行われるため、読み取りのみを定義する。
type RoleRepository interface {
	// HasRole は(user_id, role)に一致する行が存在するかを返す。
	// 行の不在は(false, nil)であり、エラーではない。
	HasRole(ctx context.Context, userID string, role model.Role) (bool, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れのセッションを削除し、削除行数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
