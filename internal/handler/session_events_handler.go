package handler

import (
	"fmt"
	"net/http"

	"github.com/hitoshi/bookhaven/internal/middleware"
	"github.com/hitoshi/bookhaven/internal/model"
	"github.com/hitoshi/bookhaven/internal/session"
)

// SessionEventsHandler はServer-Sent Eventsでセッション状態の変化を配信する。
// 接続ごとにsession.Managerを生成し、接続の寿命をページスコープとして扱う。
// セッションが「在→不在」に遷移した時点でサインインページへの
// リダイレクト指示を配信し、ストリームを終了する。
type SessionEventsHandler struct {
	provider session.Provider
}

// NewSessionEventsHandler はSessionEventsHandlerを生成する。
func NewSessionEventsHandler(provider session.Provider) *SessionEventsHandler {
	return &SessionEventsHandler{provider: provider}
}

// sseNavigator はManagerの遷移指示をイベントチャネルとして受け取る。
// 通知ゴルーチンからResponseWriterへ直接書き込まないための間接層。
type sseNavigator struct {
	redirects chan string
}

func (n *sseNavigator) ToSignIn() {
	select {
	case n.redirects <- "/login":
	default:
	}
}

// ServeHTTP はセッションイベントのSSEストリームを開始する。
// GET /api/session/events
func (h *SessionEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteInternalServerError(w)
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthRequiredError())
		return
	}

	navigator := &sseNavigator{redirects: make(chan string, 1)}
	manager, err := session.NewManager(r.Context(), h.provider, navigator, cookie.Value, session.Options{Protected: true})
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusServiceUnavailable, model.NewStoreFaultError())
		return
	}
	defer manager.Close()

	events, cancel := manager.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeSessionEvent(w, manager.Current())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case s, open := <-events:
			if !open {
				return
			}
			writeSessionEvent(w, s)
			flusher.Flush()
		case target := <-navigator.redirects:
			fmt.Fprintf(w, "event: redirect\ndata: %s\n\n", target)
			flusher.Flush()
			return
		}
	}
}

// writeSessionEvent はセッションの在・不在をSSEイベントとして書き込む。
func writeSessionEvent(w http.ResponseWriter, s *model.Session) {
	if s != nil {
		fmt.Fprintf(w, "event: session\ndata: {\"present\":true}\n\n")
	} else {
		fmt.Fprintf(w, "event: session\ndata: {\"present\":false}\n\n")
	}
}
