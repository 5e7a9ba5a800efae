package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/repository"
)

// decisionContextKey はリクエストコンテキストに認可判定を格納するためのキー。
var decisionContextKey = contextKey("authz_decision")

// AccessRecorder は認可拒否のメトリクス記録インターフェース。
type AccessRecorder interface {
	RecordAccessDenied()
}

// deniedResponder はGateのコラボレーターとして拒否の意図を記録する。
// レスポンスの書き込みはミドルウェア本体が行う。
type deniedResponder struct {
	denied   bool
	redirect bool
}

func (d *deniedResponder) AccessDenied() { d.denied = true }
func (d *deniedResponder) ToDashboard()  { d.redirect = true }

// NewAdminMiddleware は管理者ロールを要求するミドルウェアを返す。
// セッションミドルウェアの後に配置すること。
//
// リクエストごとにGateを生成して判定する（HTTPではリクエストがページ
// ライフタイムに相当する）。ロール照会の失敗は拒否として扱う
// （フェイルクローズド）。拒否時は403と遷移先ヒントヘッダーを返す。
// 許可時はGrantedの判定をコンテキストに注入し、後続ハンドラーが利用する。
func NewAdminMiddleware(roleRepo repository.RoleRepository, recorder AccessRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
				return
			}

			responder := &deniedResponder{}
			gate := authz.NewGate(roleRepo, responder, responder)

			decision := gate.CheckAdmin(r.Context(), &model.Session{UserID: userID})
			if !decision.IsGranted() {
				if recorder != nil {
					recorder.RecordAccessDenied()
				}
				if responder.redirect {
					// フロントエンドが遷移先として解釈するヒント
					w.Header().Set("X-Redirect-To", "/dashboard")
				}
				WriteErrorResponse(w, http.StatusForbidden, model.NewAccessDeniedError())
				return
			}

			ctx := ContextWithDecision(r.Context(), decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DecisionFromContext はリクエストコンテキストから認可判定を取得する。
// 判定が格納されていない場合はDeniedを返す（フェイルクローズド）。
func DecisionFromContext(ctx context.Context) authz.Decision {
	decision, ok := ctx.Value(decisionContextKey).(authz.Decision)
	if !ok {
		return authz.Denied
	}
	return decision
}

// ContextWithDecision はコンテキストに認可判定を注入する。
func ContextWithDecision(ctx context.Context, decision authz.Decision) context.Context {
	return context.WithValue(ctx, decisionContextKey, decision)
}
