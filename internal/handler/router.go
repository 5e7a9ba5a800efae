package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bookhaven/internal/middleware"
	"github.com/hitoshi/bookhaven/internal/repository"
	"github.com/hitoshi/bookhaven/internal/session"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	Ping() error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ヘルスチェック
	HealthChecker HealthChecker

	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	RoleRepo          repository.RoleRepository
	AccessRecorder    middleware.AccessRecorder
	StatusReporter    middleware.StatusReporter
	Logger            *slog.Logger
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// セッションイベント配信（SSE）。nilの場合はルートを登録しない。
	SessionProvider session.Provider

	// カタログ
	Catalog CatalogInterface

	// 注文・統計
	Orders OrdersInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → CSRF
//	→ （認証済みルートのみ）Session → RateLimit(General)
//	→ （管理者ルートのみ）Admin
//
// 認証ルート（/auth/*）、ヘルスチェック、書籍カタログの閲覧は
// セッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusReporter))
	}
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	bookHandler := NewBookHandler(deps.Catalog)
	orderHandler := NewOrderHandler(deps.Orders)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 書籍カタログの閲覧は未認証の訪問者にも公開する（IPキーのレート制限）
	r.With(deps.RateLimiter.PublicMiddleware()).Get("/api/books", bookHandler.ListBooks)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.SignIn)
		r.Post("/logout", authHandler.SignOut)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 自分の注文
		r.Get("/api/orders", orderHandler.ListOwnOrders)

		// セッションイベントのSSEストリーム
		if deps.SessionProvider != nil {
			r.Method(http.MethodGet, "/api/session/events", NewSessionEventsHandler(deps.SessionProvider))
		}

		// --- 管理者専用ルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware(deps.RoleRepo, deps.AccessRecorder))

			// 在庫操作は専用レート制限を追加
			r.With(deps.RateLimiter.InventoryMiddleware()).Post("/api/books", bookHandler.AddBook)
			r.With(deps.RateLimiter.InventoryMiddleware()).Delete("/api/books/{id}", bookHandler.DeleteBook)

			r.Get("/api/admin/orders", orderHandler.ListAllOrders)
			r.Get("/api/admin/stats", orderHandler.GetStats)
		})
	})

	return r
}

// healthHandler はヘルスチェックハンドラーを返す。
// DB疎通を確認し、正常なら200、異常なら503を返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if checker != nil {
			if err := checker.Ping(); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				status = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
