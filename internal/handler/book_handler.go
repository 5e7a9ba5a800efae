package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/catalog"
	"github.com/hitoshi/bookhaven/internal/middleware"
	"github.com/hitoshi/bookhaven/internal/model"
)

// CatalogInterface は書籍ハンドラーが必要とするカタログインターフェース。
type CatalogInterface interface {
	// Refresh はストアから全書籍を再フェッチする。
	Refresh(ctx context.Context) error
	// Filter はタイトル・著者の部分一致でスナップショットを絞り込む。
	Filter(query string) []model.Book
	// AddBook は書籍を追加し、成功後に全件を再フェッチする。
	AddBook(ctx context.Context, decision authz.Decision, input catalog.NewBookInput) error
	// DeleteBook は書籍を削除し、成功後に全件を再フェッチする。
	DeleteBook(ctx context.Context, decision authz.Decision, id string) error
}

// BookHandler は書籍カタログのHTTPハンドラー。
type BookHandler struct {
	catalog CatalogInterface
}

// NewBookHandler はBookHandlerを生成する。
func NewBookHandler(catalog CatalogInterface) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// addBookRequest は書籍追加リクエストのボディ。
// 価格と在庫数は入力フォームの生テキストのまま受け取り、検証はカタログ層で行う。
type addBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity string `json:"stock_quantity"`
	Featured      bool   `json:"featured"`
}

// bookResponse は書籍情報のAPIレスポンス。
// 価格は10進数の文字列表現で返す。
type bookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Featured      bool      `json:"featured"`
	InStock       bool      `json:"in_stock"`
	CreatedAt     time.Time `json:"created_at"`
}

func toBookResponse(b model.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Price:         b.Price.StringFixed(2),
		StockQuantity: b.StockQuantity,
		Featured:      b.Featured,
		InStock:       b.InStock(),
		CreatedAt:     b.CreatedAt,
	}
}

func toBookResponses(books []model.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}

// ListBooks は書籍一覧を返す。クエリパラメータqで絞り込み可能。
// GET /api/books?q=xxx
//
// リクエストごとにストアから再フェッチする。絞り込みは取得済みの
// スナップショットに対して行い、追加のストア問い合わせは発生しない。
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(r.Context()); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	books := h.catalog.Filter(r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBookResponses(books))
}

// AddBook は書籍を追加する。管理者のみ。
// POST /api/books
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	input := catalog.NewBookInput{
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Featured:      req.Featured,
	}

	decision := middleware.DecisionFromContext(r.Context())
	if err := h.catalog.AddBook(r.Context(), decision, input); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	// 追加後の再フェッチ済み一覧を返す
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBookResponses(h.catalog.Filter("")))
}

// DeleteBook は書籍を削除する。管理者のみ。存在しないIDの削除も成功として扱う。
// DELETE /api/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	decision := middleware.DecisionFromContext(r.Context())
	if err := h.catalog.DeleteBook(r.Context(), decision, id); err != nil {
		middleware.WriteAPIError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
