// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はタスクのタイトルと説明に含まれるHTMLを除去し、
// 格納データを常にプレーンテキストに保つ。
// bluemondayライブラリの許可リストベースのポリシー（一切のタグを許可しない）を使用する。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はテキストフィールドのサニタイズ機能のインターフェースを定義する。
// タスクの保存前（作成・更新）に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去したプレーンテキストを返す。
	// script/iframe/styleタグおよびon*イベント属性を含む全タグが除去される。
	// タグでない "a < b" のような文字はそのまま保持される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（許可タグなし）を使用し、タグを全て除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを全て除去したプレーンテキストを返す。
// bluemondayはエンティティ参照にエスケープして出力するため、
// 格納形式をプレーンテキストに揃えるべくアンエスケープして返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return html.UnescapeString(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
