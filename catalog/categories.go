package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const (
	FieldText          = "text"
	FieldNumber        = "number"
	FieldSelect        = "select"
	FieldSelectDynamic = "select_dynamic"
)

// Field カテゴリごとの入力項目
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"-"`
	// select_dynamic 用: 親項目の値 → 選択肢
	DependsOn      string              `json:"depends_on,omitempty"`
	DynamicOptions map[string][]string `json:"-"`
}

// MarshalJSON options は select なら配列、select_dynamic なら親の値ごとのマップ
func (f Field) MarshalJSON() ([]byte, error) {
	type plain Field
	out := struct {
		plain
		Options interface{} `json:"options,omitempty"`
	}{plain: plain(f)}
	switch f.Type {
	case FieldSelect:
		out.Options = f.Options
	case FieldSelectDynamic:
		out.Options = f.DynamicOptions
	}
	return json.Marshal(out)
}

// Category カテゴリ
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	NameDE string  `json:"name_de"`
	Icon   string  `json:"icon"`
	Fields []Field `json:"fields"`
}

// All 全カテゴリ (表示順)
func All() []Category {
	return categories
}

// Find IDからカテゴリを取得
func Find(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Exists カテゴリIDが存在するか
func Exists(id string) bool {
	_, ok := Find(id)
	return ok
}

// FieldError category_fields の検証エラー
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFields category_fields をカテゴリ定義に照らして検証する
func ValidateFields(categoryID string, values map[string]interface{}) error {
	cat, ok := Find(categoryID)
	if !ok {
		return &FieldError{Field: "category", Message: "Unbekannte Kategorie"}
	}

	byName := make(map[string]Field, len(cat.Fields))
	for _, f := range cat.Fields {
		byName[f.Name] = f
	}

	for key, raw := range values {
		f, ok := byName[key]
		if !ok {
			return &FieldError{Field: key, Message: "Unbekanntes Feld"}
		}
		if raw == nil {
			continue
		}
		switch f.Type {
		case FieldText:
			if _, ok := raw.(string); !ok {
				return &FieldError{Field: key, Message: "Text erwartet"}
			}
		case FieldNumber:
			if !isNumber(raw) {
				return &FieldError{Field: key, Message: "Zahl erwartet"}
			}
		case FieldSelect:
			s, ok := raw.(string)
			if !ok || !contains(f.Options, s) {
				return &FieldError{Field: key, Message: "Ungültige Auswahl"}
			}
		case FieldSelectDynamic:
			s, ok := raw.(string)
			if !ok {
				return &FieldError{Field: key, Message: "Ungültige Auswahl"}
			}
			parent, _ := values[f.DependsOn].(string)
			options, known := f.DynamicOptions[parent]
			// 選択肢が定義されていない親の値 (例: "Andere") は自由入力
			if known && len(options) > 0 && !contains(options, s) {
				return &FieldError{Field: key, Message: "Ungültige Auswahl"}
			}
			if !known && parent != "" {
				return &FieldError{Field: f.DependsOn, Message: "Ungültige Auswahl"}
			}
		}
	}
	return nil
}

func isNumber(v interface{}) bool {
	switch n := v.(type) {
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32, int, int32, int64, uint, uint32, uint64:
		return true
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case string:
		_, err := strconv.ParseFloat(n, 64)
		return err == nil
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
