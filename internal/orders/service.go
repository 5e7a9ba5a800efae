// Package orders は注文の取得と統計集計を提供する。
package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/repository"
)

// Service は注文の読み取りと統計の計算を行う。
// 注文の作成・更新はチェックアウトフローの責務であり、ここでは扱わない。
type Service struct {
	orderRepo repository.OrderRepository
	bookRepo  repository.BookRepository
}

// NewService はServiceを生成する。
func NewService(orderRepo repository.OrderRepository, bookRepo repository.BookRepository) *Service {
	return &Service{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
	}
}

// ListOwn は指定ユーザー自身の注文をcreated_at降順で取得する。
// 許可判定は不要。自分の注文は誰でも閲覧できる。
func (s *Service) ListOwn(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		slog.Error("failed to list orders",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}
	return orders, nil
}

// ListAll は全ユーザーの注文をcreated_at降順で取得する。
// 管理者の許可判定が必要。判定がGrantedでない場合、ストアには問い合わせない。
func (s *Service) ListAll(ctx context.Context, decision authz.Decision) ([]model.Order, error) {
	if !decision.IsGranted() {
		return nil, model.NewAccessDeniedError()
	}

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		slog.Error("failed to list all orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}
	return orders, nil
}

// ComputeStats は注文一覧から統計を計算する純粋関数。
// 売上合計は10進数の正確な加算で求める。浮動小数点は使わない。
// 加算結果は注文の順序に依存しない。
func ComputeStats(totalBooks int, orders []model.Order) model.Stats {
	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}
	return model.Stats{
		TotalBooks:   totalBooks,
		TotalOrders:  len(orders),
		TotalRevenue: revenue,
	}
}

// AdminStats は管理者ダッシュボード用の統計を取得する。
// 書籍総数・注文総数・売上合計をフェッチごとに再計算する。
// 管理者の許可判定が必要。いずれかのフェッチが失敗した場合はStoreFaultを返す。
func (s *Service) AdminStats(ctx context.Context, decision authz.Decision) (*model.Stats, error) {
	if !decision.IsGranted() {
		return nil, model.NewAccessDeniedError()
	}

	totalBooks, err := s.bookRepo.CountAll(ctx)
	if err != nil {
		slog.Error("failed to count books", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		slog.Error("failed to list orders for stats", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", model.NewStoreFaultError(), err.Error())
	}

	stats := ComputeStats(totalBooks, orders)
	return &stats, nil
}
