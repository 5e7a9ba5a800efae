package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/model"
)

// --- モック定義 ---

type mockOrderRepo struct {
	listByUserIDFn func(ctx context.Context, userID string) ([]model.Order, error)
	listAllFn      func(ctx context.Context) ([]model.Order, error)

	listAllCalls int
}

func (m *mockOrderRepo) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	m.listAllCalls++
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockBookRepo struct {
	countAllFn func(ctx context.Context) (int, error)
}

func (m *mockBookRepo) ListAll(ctx context.Context) ([]model.Book, error) { return nil, nil }
func (m *mockBookRepo) Create(ctx context.Context, book *model.Book) error {
	return nil
}
func (m *mockBookRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	return 0, nil
}
func (m *mockBookRepo) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func order(id, userID, amount string) model.Order {
	return model.Order{
		ID:          id,
		UserID:      userID,
		TotalAmount: decimal.RequireFromString(amount),
		Status:      model.OrderStatusPending,
		CreatedAt:   time.Now(),
	}
}

// --- ListOwn テスト ---

func TestListOwn_ReturnsUserOrders(t *testing.T) {
	repo := &mockOrderRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]model.Order, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			return []model.Order{order("o1", "user-1", "19.99")}, nil
		},
	}
	svc := NewService(repo, &mockBookRepo{})

	orders, err := svc.ListOwn(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "o1" {
		t.Errorf("orders = %v, want [o1]", orders)
	}
}

func TestListOwn_StoreFault(t *testing.T) {
	repo := &mockOrderRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]model.Order, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo, &mockBookRepo{})

	_, err := svc.ListOwn(context.Background(), "user-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeStoreFault {
		t.Fatalf("expected StoreFault error, got %v", err)
	}
}

// --- ListAll テスト ---

func TestListAll_RequiresGrant(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, &mockBookRepo{})

	_, err := svc.ListAll(context.Background(), authz.Denied)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAccessDenied {
		t.Fatalf("expected AccessDenied error, got %v", err)
	}
	if repo.listAllCalls != 0 {
		t.Errorf("store calls = %d, want 0", repo.listAllCalls)
	}
}

func TestListAll_Granted(t *testing.T) {
	repo := &mockOrderRepo{
		listAllFn: func(ctx context.Context) ([]model.Order, error) {
			return []model.Order{
				order("o1", "user-1", "19.99"),
				order("o2", "user-2", "5.00"),
			}, nil
		},
	}
	svc := NewService(repo, &mockBookRepo{})

	orders, err := svc.ListAll(context.Background(), authz.Granted)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("orders = %d, want 2", len(orders))
	}
}

// --- ComputeStats テスト ---

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(0, nil)

	if stats.TotalBooks != 0 {
		t.Errorf("TotalBooks = %d, want 0", stats.TotalBooks)
	}
	if stats.TotalOrders != 0 {
		t.Errorf("TotalOrders = %d, want 0", stats.TotalOrders)
	}
	if !stats.TotalRevenue.Equal(decimal.Zero) {
		t.Errorf("TotalRevenue = %s, want 0", stats.TotalRevenue)
	}
}

func TestComputeStats_ExactDecimalSum(t *testing.T) {
	// 19.99 + 5.00 は正確に 24.99。浮動小数点の丸め誤差は許されない。
	orders := []model.Order{
		order("o1", "user-1", "19.99"),
		order("o2", "user-2", "5.00"),
	}

	stats := ComputeStats(7, orders)

	if stats.TotalBooks != 7 {
		t.Errorf("TotalBooks = %d, want 7", stats.TotalBooks)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", stats.TotalOrders)
	}
	want := decimal.RequireFromString("24.99")
	if !stats.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", stats.TotalRevenue, want)
	}
}

func TestComputeStats_OrderIndependent(t *testing.T) {
	a := []model.Order{
		order("o1", "u", "0.10"),
		order("o2", "u", "0.20"),
		order("o3", "u", "0.30"),
	}
	b := []model.Order{a[2], a[0], a[1]}

	sa := ComputeStats(0, a)
	sb := ComputeStats(0, b)

	if !sa.TotalRevenue.Equal(sb.TotalRevenue) {
		t.Errorf("revenue depends on order: %s vs %s", sa.TotalRevenue, sb.TotalRevenue)
	}
	want := decimal.RequireFromString("0.60")
	if !sa.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", sa.TotalRevenue, want)
	}
}

// --- AdminStats テスト ---

func TestAdminStats_RequiresGrant(t *testing.T) {
	repo := &mockOrderRepo{}
	countCalls := 0
	books := &mockBookRepo{
		countAllFn: func(ctx context.Context) (int, error) {
			countCalls++
			return 0, nil
		},
	}
	svc := NewService(repo, books)

	_, err := svc.AdminStats(context.Background(), authz.Denied)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAccessDenied {
		t.Fatalf("expected AccessDenied error, got %v", err)
	}
	if countCalls != 0 || repo.listAllCalls != 0 {
		t.Error("store should not be queried without grant")
	}
}

func TestAdminStats_AggregatesAll(t *testing.T) {
	repo := &mockOrderRepo{
		listAllFn: func(ctx context.Context) ([]model.Order, error) {
			return []model.Order{
				order("o1", "user-1", "19.99"),
				order("o2", "user-2", "5.00"),
			}, nil
		},
	}
	books := &mockBookRepo{
		countAllFn: func(ctx context.Context) (int, error) { return 42, nil },
	}
	svc := NewService(repo, books)

	stats, err := svc.AdminStats(context.Background(), authz.Granted)
	if err != nil {
		t.Fatalf("AdminStats returned error: %v", err)
	}

	if stats.TotalBooks != 42 {
		t.Errorf("TotalBooks = %d, want 42", stats.TotalBooks)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", stats.TotalOrders)
	}
	want := decimal.RequireFromString("24.99")
	if !stats.TotalRevenue.Equal(want) {
		t.Errorf("TotalRevenue = %s, want %s", stats.TotalRevenue, want)
	}
}

func TestAdminStats_CountFault(t *testing.T) {
	repo := &mockOrderRepo{}
	books := &mockBookRepo{
		countAllFn: func(ctx context.Context) (int, error) {
			return 0, errors.New("connection refused")
		},
	}
	svc := NewService(repo, books)

	_, err := svc.AdminStats(context.Background(), authz.Granted)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeStoreFault {
		t.Fatalf("expected StoreFault error, got %v", err)
	}
}
