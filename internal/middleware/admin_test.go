package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/bookhaven/internal/authz"
	"github.com/hitoshi/bookhaven/internal/model"
)

// --- モック定義 ---

type mockRoleRepository struct {
	hasRoleFn func(ctx context.Context, userID string, role model.Role) (bool, error)
	calls     int
}

func (m *mockRoleRepository) HasRole(ctx context.Context, userID string, role model.Role) (bool, error) {
	m.calls++
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, userID, role)
	}
	return false, nil
}

type mockAccessRecorder struct {
	denials int
}

func (m *mockAccessRecorder) RecordAccessDenied() { m.denials++ }

func adminRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	return req.WithContext(ContextWithUserID(req.Context(), userID))
}

// --- テスト ---

func TestAdminMiddleware_AdminRole_InjectsGrantedDecision(t *testing.T) {
	repo := &mockRoleRepository{
		hasRoleFn: func(ctx context.Context, userID string, role model.Role) (bool, error) {
			return userID == "admin-user" && role == model.RoleAdmin, nil
		},
	}
	mw := NewAdminMiddleware(repo, nil)

	var captured authz.Decision
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = DecisionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest("admin-user"))

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !captured.IsGranted() {
		t.Error("expected Granted decision in context")
	}
}

func TestAdminMiddleware_NoAdminRole_Returns403(t *testing.T) {
	repo := &mockRoleRepository{} // 行なし
	recorder := &mockAccessRecorder{}
	mw := NewAdminMiddleware(repo, recorder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest("regular-user"))

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	if got := resp.Header.Get("X-Redirect-To"); got != "/dashboard" {
		t.Errorf("X-Redirect-To = %q, want %q", got, "/dashboard")
	}
	if recorder.denials != 1 {
		t.Errorf("recorded denials = %d, want 1", recorder.denials)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != model.ErrCodeAccessDenied {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeAccessDenied)
	}
}

// ロール照会の失敗は拒否と同一に扱う（フェイルクローズド）。
func TestAdminMiddleware_RoleQueryError_Returns403(t *testing.T) {
	repo := &mockRoleRepository{
		hasRoleFn: func(ctx context.Context, userID string, role model.Role) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	mw := NewAdminMiddleware(repo, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest("any-user"))

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

func TestAdminMiddleware_NoUserID_Returns401(t *testing.T) {
	repo := &mockRoleRepository{}
	mw := NewAdminMiddleware(repo, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	if repo.calls != 0 {
		t.Errorf("role queries = %d, want 0", repo.calls)
	}
}

// 判定が注入されていないコンテキストはDeniedを返す（フェイルクローズド）。
func TestDecisionFromContext_Missing_ReturnsDenied(t *testing.T) {
	decision := DecisionFromContext(context.Background())
	if decision.IsGranted() {
		t.Error("missing decision should be Denied")
	}
}
