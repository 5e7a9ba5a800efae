// Package session は現在のセッション値の保持と変更通知の再配信を提供する。
//
// Managerはページスコープごとに1つ生成され、Identity Providerから
// 「現在のセッション」を1回取得した後、変更通知の購読を開始する。
// 購読者は常に最新の値のみを観測し、中間状態のキューイングは行わない。
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/bookhaven/internal/model"
)

// Provider はIdentity Providerのセッション提供契約。
// auth.Serviceの部分集合として定義する。
type Provider interface {
	// CurrentSession は現在有効なセッションを返す。不在の場合は(nil, nil)。
	CurrentSession(ctx context.Context, sessionID string) (*model.Session, error)
	// Subscribe はセッション変更通知の購読を開始し、購読解除関数を返す。
	Subscribe(fn func(session *model.Session)) func()
}

// Navigator はページ遷移の外部コラボレーター。
// 本コアは遷移指示のみを発行し、描画は所有しない。
type Navigator interface {
	// ToSignIn はサインインページへの遷移を指示する。
	ToSignIn()
}

// Options はManagerの生成オプション。
type Options struct {
	// Protected が真の場合、セッションが「在→不在」に遷移した時点で
	// Navigator.ToSignIn() を1回呼び出す。
	Protected bool
}

// Manager は現在のセッション値を保持し、変更を購読者へ再配信する。
// セッション値の書き込みはProviderからの通知のみ（単一ライター）で、
// 読み取りは複数のコンポーネントから行われる。
type Manager struct {
	navigator Navigator
	opts      Options

	mu          sync.Mutex
	current     *model.Session
	subscribers map[int]chan *model.Session
	nextSubID   int
	closed      bool

	unsubscribe func()
}

// NewManager はManagerを生成する。
// 初期化時にProviderから現在のセッションを1回取得し、
// その後の変更通知の購読を開始する。
// 使用後は必ずClose()で購読を解放すること。
func NewManager(ctx context.Context, provider Provider, navigator Navigator, sessionID string, opts Options) (*Manager, error) {
	current, err := provider.CurrentSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current session: %w", err)
	}

	m := &Manager{
		navigator:   navigator,
		opts:        opts,
		current:     current,
		subscribers: make(map[int]chan *model.Session),
	}

	m.unsubscribe = provider.Subscribe(m.onChange)

	if opts.Protected && current == nil {
		// 保護ページで初期セッションが不在の場合は即座にサインインへ誘導する
		navigator.ToSignIn()
	}

	return m, nil
}

// Current は最新のセッション値を返す。不在の場合はnil。
func (m *Manager) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe はセッション変更の購読チャネルと購読解除関数を返す。
// チャネルは容量1で、未消費の古い値は新しい値で置き換えられる
// （購読者は常に最新の値のみを観測する）。
// 解除関数は冪等であり、すべての脱出経路で必ず呼び出すこと。
func (m *Manager) Subscribe() (<-chan *model.Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *model.Session, 1)
	id := m.nextSubID
	m.nextSubID++

	if m.closed {
		// Close済みのManagerへの購読は即座に閉じたチャネルを返す
		close(ch)
		return ch, func() {}
	}

	m.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(ch)
			}
		})
	}

	return ch, cancel
}

// Close はProviderへの購読を解放し、全購読チャネルを閉じる。
// Close後にコールバックが破棄済みのManagerへ発火することはない。
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, ch := range m.subscribers {
		delete(m.subscribers, id)
		close(ch)
	}
}

// onChange はProviderからの変更通知を処理する。
// 値を置き換え、購読者へ再配信し、保護ページでの「在→不在」遷移時は
// サインインページへの遷移を指示する。
func (m *Manager) onChange(session *model.Session) {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return
	}

	wasPresent := m.current != nil
	m.current = session

	for _, ch := range m.subscribers {
		// 未消費の古い値を破棄してから最新値を送る（最新値のみ保証）
		select {
		case <-ch:
		default:
		}
		ch <- session
	}

	lost := wasPresent && session == nil
	m.mu.Unlock()

	if lost && m.opts.Protected {
		slog.Info("session lost on protected page, redirecting to sign-in")
		m.navigator.ToSignIn()
	}
}
