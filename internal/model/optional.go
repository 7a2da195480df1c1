// Package model はドメインモデルを定義する。
package model

import "encoding/json"

// OptionalString はJSONボディにおける「キー未指定」「明示的なnull」
// 「文字列値」の3状態を区別する文字列フィールドを表す。
// encoding/jsonはキーが存在する場合にのみUnmarshalJSONを呼ぶため、
// Set==falseはキー未指定、Set==true かつ Value==nil は明示的なnullを意味する。
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// NewOptionalString は文字列値を持つOptionalStringを生成する。テスト用途。
func NewOptionalString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// NullOptionalString は明示的なnullを表すOptionalStringを生成する。テスト用途。
func NullOptionalString() OptionalString {
	return OptionalString{Set: true, Value: nil}
}
