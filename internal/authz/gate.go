// Package authz はロールに基づく認可判定を提供する。
//
// Gateはセッション確認後に管理者ロールの有無を照会し、判定結果を
// ページスコープの間キャッシュする。照会の失敗は常に拒否として扱う
// （フェイルクローズド）: 認可判定が曖昧なまま許可に倒れることはない。
package authz

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/repository"
)

// Decision は認可判定の結果を表す。
type Decision int

const (
	// Denied はアクセス拒否を示す。ゼロ値を拒否とすることで、
	// 未初期化の判定が許可として扱われることを防ぐ。
	Denied Decision = iota
	// Granted はアクセス許可を示す。
	Granted
)

// IsGranted は判定が許可かどうかを返す。
func (d Decision) IsGranted() bool {
	return d == Granted
}

// Notifier はユーザー向け通知の外部コラボレーター。
type Notifier interface {
	// AccessDenied は「アクセス拒否」の通知表示を指示する。
	AccessDenied()
}

// Navigator はページ遷移の外部コラボレーター。
type Navigator interface {
	// ToDashboard は一般ダッシュボードへの遷移を指示する。
	ToDashboard()
}

// Gate は管理者ロールの認可判定を行う。
// 判定結果はページスコープの間キャッシュされ、セッション変更時には
// Reset()で破棄すること。
type Gate struct {
	roleRepo  repository.RoleRepository
	notifier  Notifier
	navigator Navigator

	mu       sync.Mutex
	cached   bool
	decision Decision
}

// NewGate はGateを生成する。
func NewGate(roleRepo repository.RoleRepository, notifier Notifier, navigator Navigator) *Gate {
	return &Gate{
		roleRepo:  roleRepo,
		notifier:  notifier,
		navigator: navigator,
	}
}

// CheckAdmin はセッションのユーザーが管理者ロールを持つかを判定する。
// 前提条件: 呼び出し側はセッションの存在を確認済みであること
// （不在の場合は呼び出し前にリダイレクト済み）。防御的にnilは拒否する。
//
// (user_id, admin)の行が存在しないことは正常な否定結果でありエラーではない。
// ストア障害時も同様に拒否する（フェイルクローズド）。
// 拒否時はアクセス拒否の通知とダッシュボードへの遷移を指示する。
func (g *Gate) CheckAdmin(ctx context.Context, session *model.Session) Decision {
	if session == nil {
		return Denied
	}

	g.mu.Lock()
	if g.cached {
		decision := g.decision
		g.mu.Unlock()
		return decision
	}
	g.mu.Unlock()

	decision := Denied
	has, err := g.roleRepo.HasRole(ctx, session.UserID, model.RoleAdmin)
	if err != nil {
		// フェイルクローズド: 照会の失敗は拒否と同一に扱う
		slog.Error("role query failed, denying access",
			slog.String("user_id", session.UserID),
			slog.String("error", err.Error()),
		)
	} else if has {
		decision = Granted
	}

	g.mu.Lock()
	g.cached = true
	g.decision = decision
	g.mu.Unlock()

	if decision == Denied {
		slog.Warn("admin access denied",
			slog.String("user_id", session.UserID),
		)
		g.notifier.AccessDenied()
		g.navigator.ToDashboard()
	}

	return decision
}

// Reset はキャッシュ済みの判定を破棄する。
// セッションの変更（サインイン・サインアウト）時に呼び出すこと。
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cached = false
	g.decision = Denied
}
