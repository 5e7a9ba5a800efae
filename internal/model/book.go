// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book はカタログ上の書籍を表す。
// PriceとStockQuantityは常に0以上であることを不変条件とする。
type Book struct {
	ID            string
	Title         string
	Author        string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Featured      bool
	CreatedAt     time.Time
}

// InStock は在庫が存在するかどうかを返す。
// falseの場合、購入導線は無効化されなければならない。
func (b *Book) InStock() bool {
	return b.StockQuantity > 0
}
