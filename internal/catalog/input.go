package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hitoshi/bookhaven/internal/model"
)

// NewBookInput は書籍追加フォームの入力値を表す。
// 数値フィールドは未検証の文字列として受け取り、ストア呼び出しの前に検証する。
type NewBookInput struct {
	Title         string
	Author        string
	Description   string // 省略可。デフォルトは空文字列。
	Price         string
	StockQuantity string
	Featured      bool
}

// parsedBook は検証済みの書籍フィールドを保持する。
type parsedBook struct {
	title         string
	author        string
	description   string
	price         decimal.Decimal
	stockQuantity int
	featured      bool
}

// validate は入力値を検証し、検証済みフィールドを返す。
// 検証エラーはすべて呼び出し側の入力エラーであり、ストア呼び出し前に報告される。
func (in NewBookInput) validate() (*parsedBook, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, model.NewFieldRequiredError("title")
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		return nil, model.NewFieldRequiredError("author")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		return nil, model.NewInvalidPriceError(in.Price)
	}

	stock, err := strconv.Atoi(strings.TrimSpace(in.StockQuantity))
	if err != nil || stock < 0 {
		return nil, model.NewInvalidStockError(in.StockQuantity)
	}

	return &parsedBook{
		title:         title,
		author:        author,
		description:   in.Description,
		price:         price,
		stockQuantity: stock,
		featured:      in.Featured,
	}, nil
}
