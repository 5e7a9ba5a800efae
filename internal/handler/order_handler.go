package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/middleware"
	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/orders"
)

// OrdersInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrdersInterface interface {
	// ListOwn はユーザー自身の注文を取得する。
	ListOwn(ctx context.Context, userID string) ([]model.Order, error)
	// ListAll は全注文を取得する。管理者の許可判定が必要。
	ListAll(ctx context.Context, decision authz.Decision) ([]model.Order, error)
	// AdminStats は管理者ダッシュボード用の統計を取得する。
	AdminStats(ctx context.Context, decision authz.Decision) (*model.Stats, error)
}

// OrderHandler は注文と統計のHTTPハンドラー。
type OrderHandler struct {
	service OrdersInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrdersInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// orderResponse は注文情報のAPIレスポンス。
// 合計金額は10進数の文字列表現で返す。
type orderResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ownOrdersResponse はユーザー自身の注文履歴と自己統計のAPIレスポンス。
type ownOrdersResponse struct {
	Orders     []orderResponse `json:"orders"`
	OrderCount int             `json:"order_count"`
	TotalSpent string          `json:"total_spent"`
}

// statsResponse は管理者統計のAPIレスポンス。
type statsResponse struct {
	TotalBooks   int    `json:"total_books"`
	TotalOrders  int    `json:"total_orders"`
	TotalRevenue string `json:"total_revenue"`
}

func toOrderResponses(orders []model.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = orderResponse{
			ID:          o.ID,
			UserID:      o.UserID,
			TotalAmount: o.TotalAmount.StringFixed(2),
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt,
		}
	}
	return out
}

// ListOwnOrders はログインユーザー自身の注文履歴と自己統計を返す。
// GET /api/orders
func (h *OrderHandler) ListOwnOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	own, err := h.service.ListOwn(r.Context(), userID)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	stats := orders.ComputeStats(0, own)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ownOrdersResponse{
		Orders:     toOrderResponses(own),
		OrderCount: stats.TotalOrders,
		TotalSpent: stats.TotalRevenue.StringFixed(2),
	})
}

// ListAllOrders は全ユーザーの注文一覧を返す。管理者のみ。
// GET /api/admin/orders
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	decision := middleware.DecisionFromContext(r.Context())

	orders, err := h.service.ListAll(r.Context(), decision)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toOrderResponses(orders))
}

// GetStats は管理者ダッシュボード用の統計を返す。管理者のみ。
// GET /api/admin/stats
//
// 統計は永続化せず、リクエストごとに再計算する。
func (h *OrderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	decision := middleware.DecisionFromContext(r.Context())

	stats, err := h.service.AdminStats(r.Context(), decision)
	if err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		TotalBooks:   stats.TotalBooks,
		TotalOrders:  stats.TotalOrders,
		TotalRevenue: stats.TotalRevenue.StringFixed(2),
	})
}
