// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, store, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeFieldRequired      = "FIELD_REQUIRED"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeInvalidStock       = "INVALID_STOCK"
	ErrCodeAccessDenied       = "ACCESS_DENIED"
	ErrCodeAuthRequired       = "AUTH_REQUIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodeStoreFault         = "STORE_FAULT"
)

// NewFieldRequiredError は必須フィールド未入力エラーを生成する。
func NewFieldRequiredError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeFieldRequired,
		Message:  fmt.Sprintf("%s は必須項目です。", field),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidPriceError は価格の形式不正エラーを生成する。
// 価格は0以上の10進数でなければならない。
func NewInvalidPriceError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPrice,
		Message:  fmt.Sprintf("無効な価格です: %s", value),
		Category: "validation",
		Action:   "価格には0以上の数値（例: 12.50）を入力してください。",
	}
}

// NewInvalidStockError は在庫数の形式不正エラーを生成する。
// 在庫数は0以上の整数でなければならない。
func NewInvalidStockError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStock,
		Message:  fmt.Sprintf("無効な在庫数です: %s", value),
		Category: "validation",
		Action:   "在庫数には0以上の整数を入力してください。",
	}
}

// NewAccessDeniedError は権限不足エラーを生成する。
// 管理者ロールの行が存在しない場合、およびロール照会が失敗した場合（フェイルクローズド）に使用する。
func NewAccessDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodeAccessDenied,
		Message:  "アクセスが拒否されました。管理者権限が必要です。",
		Category: "auth",
		Action:   "ダッシュボードに戻ります。",
	}
}

// NewAuthRequiredError は未認証エラーを生成する。
func NewAuthRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthRequired,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "サインインページからログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メールアドレスの存在有無を漏らさないよう、メッセージは常に同一とする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードは8文字以上で入力してください。",
		Category: "validation",
		Action:   "より長いパスワードを設定してください。",
	}
}

// NewStoreFaultError はレコードストア障害エラーを生成する。
// ビュー状態は最後に成功した読み取り結果のまま維持され、再試行が可能。
func NewStoreFaultError() *APIError {
	return &APIError{
		Code:     ErrCodeStoreFault,
		Message:  "データの読み書きに失敗しました。",
		Category: "store",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
