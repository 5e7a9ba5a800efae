package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/repository"
)

// PageState はページの読み込み状態を表す（3状態）。
type PageState int

const (
	// StateLoading は初回フェッチが未完了であることを示す。
	StateLoading PageState = iota
	// StateReady はデータが利用可能であることを示す。
	StateReady
	// StateDenied はアクセスが拒否されたことを示す。
	StateDenied
)

// Metrics はファサードが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordBookCreated()
	RecordBookDeleted()
	RecordStoreFault()
	RecordQueryLatency(d time.Duration)
}

// Facade は書籍カタログの全読み書きを仲介する。
//
// 読み取りはフェッチごとに完全なスナップショットを取得し、
// 書き込み成功後は必ず全件を再フェッチする。ビューは常にストアの
// 実際の読み取り結果を反映し、ローカルで合成した楽観的レコードを含まない。
//
// 同時に発行されたフェッチは呼び出し順に解決するとは限らず、
// 「最後に完了した応答が勝つ」。この動作は意図的に受容している。
type Facade struct {
	bookRepo  repository.BookRepository
	sanitizer DescriptionSanitizer
	metrics   Metrics

	mu       sync.Mutex
	state    PageState
	snapshot []model.Book
}

// NewFacade はFacadeを生成する。metricsはnil可。
func NewFacade(bookRepo repository.BookRepository, sanitizer DescriptionSanitizer, metrics Metrics) *Facade {
	return &Facade{
		bookRepo:  bookRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
		state:     StateLoading,
	}
}

// State は現在のページ状態を返す。
func (f *Facade) State() PageState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// MarkDenied はページ状態を拒否にする。
// 認可ゲートが拒否を返したページで呼び出す。
func (f *Facade) MarkDenied() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateDenied
}

// Refresh はストアから全書籍をcreated_at降順で再フェッチし、
// スナップショットを置き換える。
// ストア障害時はスナップショットを変更せず（最後に成功した読み取りを維持）、
// StoreFaultを返す。
func (f *Facade) Refresh(ctx context.Context) error {
	start := time.Now()
	books, err := f.bookRepo.ListAll(ctx)
	if f.metrics != nil {
		f.metrics.RecordQueryLatency(time.Since(start))
	}
	if err != nil {
		slog.Error("failed to refresh catalog", slog.String("error", err.Error()))
		f.recordStoreFault()
		return fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}

	f.mu.Lock()
	f.snapshot = books
	f.state = StateReady
	f.mu.Unlock()

	return nil
}

// Books は現在のスナップショットのコピーを返す。
// 返り値への変更はスナップショットに影響しない。
func (f *Facade) Books() []model.Book {
	f.mu.Lock()
	defer f.mu.Unlock()

	books := make([]model.Book, len(f.snapshot))
	copy(books, f.snapshot)
	return books
}

// Filter はタイトルまたは著者に対する大文字小文字を区別しない
// 部分一致でスナップショットを絞り込む。
// 純粋関数であり、スナップショット本体を変更しない。
// 空のクエリは全件を返す。
func (f *Facade) Filter(query string) []model.Book {
	books := f.Books()
	if query == "" {
		return books
	}

	q := strings.ToLower(query)
	filtered := make([]model.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// AddBook は新しい書籍をストアに追加する。管理者の許可判定が必要。
// 入力検証エラーはストア呼び出し前に報告される。
// 挿入成功後は全件を再フェッチしてビューを更新する。
// ストアが挿入を拒否した場合、既存のビュー状態は変更されない。
func (f *Facade) AddBook(ctx context.Context, decision authz.Decision, input NewBookInput) error {
	if !decision.IsGranted() {
		return model.NewAccessDeniedError()
	}

	parsed, err := input.validate()
	if err != nil {
		return err
	}

	book := &model.Book{
		ID:            uuid.New().String(),
		Title:         parsed.title,
		Author:        parsed.author,
		Description:   f.sanitizer.Sanitize(parsed.description),
		Price:         parsed.price,
		StockQuantity: parsed.stockQuantity,
		Featured:      parsed.featured,
		CreatedAt:     time.Now(),
	}

	if err := f.bookRepo.Create(ctx, book); err != nil {
		slog.Error("failed to add book",
			slog.String("title", book.Title),
			slog.String("error", err.Error()),
		)
		f.recordStoreFault()
		return fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}

	slog.Info("book added",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)
	if f.metrics != nil {
		f.metrics.RecordBookCreated()
	}

	return f.Refresh(ctx)
}

// DeleteBook は指定IDの書籍をストアから削除する。管理者の許可判定が必要。
// 存在しないIDの削除は成功として扱う（冪等）。
// 削除成功後は全件を再フェッチしてビューを更新する。
func (f *Facade) DeleteBook(ctx context.Context, decision authz.Decision, id string) error {
	if !decision.IsGranted() {
		return model.NewAccessDeniedError()
	}

	affected, err := f.bookRepo.DeleteByID(ctx, id)
	if err != nil {
		slog.Error("failed to delete book",
			slog.String("book_id", id),
			slog.String("error", err.Error()),
		)
		f.recordStoreFault()
		return fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}

	if affected == 0 {
		// 対象行なしも成功（冪等削除）
		slog.Info("delete of missing book treated as success", slog.String("book_id", id))
	} else {
		slog.Info("book deleted", slog.String("book_id", id))
		if f.metrics != nil {
			f.metrics.RecordBookDeleted()
		}
	}

	return f.Refresh(ctx)
}

func (f *Facade) recordStoreFault() {
	if f.metrics != nil {
		f.metrics.RecordStoreFault()
	}
}
