package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates
// reference data entries as {name}.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"parse_error":           "malformed JSON",
		"invalid_type":          "invalid type",
		"invalid_number":        "malformed number",
		"not_representable":     "number {value} does not fit {type}",
		"unknown_key":           "unknown key {key}",
		"duplicate_key":         "duplicate key {key}",
		"required":              "required property {key} missing",
		"invalid_enum":          "{value} is not one of {expected}",
		"discriminator_missing": "discriminator {key} missing",
		"discriminator_unknown": "unknown variant {value} for discriminator {key}",
		"union_ambiguous":       "expected exactly one variant key",
		"too_short":             "too short: expected {expected} elements",
		"too_long":              "too long: expected {expected} elements",
		"invalid_format":        "invalid {format} value",
		"truncated":             "truncated",
		"max_depth":             "nesting too deep",
		"trailing_data":         "unexpected data after the document",
	},
	"ja": {
		"parse_error":           "JSONの構文が不正です",
		"invalid_type":          "型が不正です",
		"invalid_number":        "数値の形式が不正です",
		"not_representable":     "数値 {value} は {type} で表現できません",
		"unknown_key":           "未知のキーです: {key}",
		"duplicate_key":         "キーが重複しています: {key}",
		"required":              "必須プロパティが不足しています: {key}",
		"invalid_enum":          "{value} は {expected} のいずれでもありません",
		"discriminator_missing": "判別キー {key} がありません",
		"discriminator_unknown": "判別キー {key} の値 {value} は未知です",
		"union_ambiguous":       "バリアントのキーはちょうど1つである必要があります",
		"too_short":             "短すぎます: 要素数 {expected}",
		"too_long":              "長すぎます: 要素数 {expected}",
		"invalid_format":        "{format} の形式が不正です",
		"truncated":             "打ち切られました",
		"max_depth":             "ネストが深すぎます",
		"trailing_data":         "ドキュメントの後に余分なデータがあります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
