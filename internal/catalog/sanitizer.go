// Package catalog はカタログの読み取り・管理を仲介するファサードを提供する。
package catalog

import "github.com/microcosm-cc/bluemonday"

// DescriptionSanitizer は書籍説明文のサニタイズ機能のインターフェースを定義する。
// 説明文はストアフロント上でHTMLとして描画されるため、保存前に必ず通すこと。
type DescriptionSanitizer interface {
	// Sanitize は説明文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, em, strong, ul, ol, li）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// descriptionSanitizer はDescriptionSanitizerの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer はDescriptionSanitizerの新しいインスタンスを生成する。
// 許可リストベースのポリシーを構築し、許可リスト外のタグは自動的に除去される。
func NewDescriptionSanitizer() *descriptionSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "em", "strong", "ul", "ol", "li")

	return &descriptionSanitizer{policy: p}
}

// Sanitize は説明文をサニタイズして安全なHTMLを返す。
func (s *descriptionSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}

// compile-time interface check
var _ DescriptionSanitizer = (*descriptionSanitizer)(nil)
