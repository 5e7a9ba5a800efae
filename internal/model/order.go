// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus は注文の状態を表す。
type OrderStatus string

const (
	// OrderStatusPending は未処理の注文を示す。
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusFulfilled は発送済みの注文を示す。
	OrderStatusFulfilled OrderStatus = "fulfilled"
)

// Order は購入注文を表す。
// 注文の作成はチェックアウトフロー（本コアの対象外）で行われ、ここでは読み取り専用。
type Order struct {
	ID          string
	UserID      string
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
}

// Stats は集計統計を表す。永続化せず、フェッチごとに再計算する。
type Stats struct {
	TotalBooks   int
	TotalOrders  int
	TotalRevenue decimal.Decimal
}
