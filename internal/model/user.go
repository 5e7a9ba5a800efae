// Package model はドメインモデルを定義する。
package model

import "time"

// User はストアの利用ユーザーを表す。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// クライアント側で保持される値は常に「有効なセッション」か「不在（nil）」の
// いずれかであり、部分的・期限切れの状態は表現しない。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Role はユーザーに付与される権限ラベルを表す。
// 将来のロール追加に備えてbooleanではなく開いた列挙として扱う。
type Role string

const (
	// RoleAdmin は在庫管理と全注文の統計閲覧を許可する管理者ロール。
	RoleAdmin Role = "admin"
	// RoleStandard は一般ユーザーロール。明示的な行が無い場合のデフォルト。
	RoleStandard Role = "standard"
)

// RoleAssignment はユーザーとロールの対応を表す。
// 行の不在は「権限なし」を意味する正常な状態であり、エラーではない。
type RoleAssignment struct {
	UserID    string
	Role      Role
	CreatedAt time.Time
}
