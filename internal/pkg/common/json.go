package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// StripCodeFences 移除模型輸出常見的 markdown 代碼圍欄
func StripCodeFences(raw string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, "$1"))
}

// FirstJSONArray 取出文字中第一個平衡的 JSON 陣列子字串。
// 模型回覆常在 JSON 前後夾雜說明文字，這裡只取 '[' 到對應 ']' 的片段。
func FirstJSONArray(text string) (string, bool) {
	return firstBalanced(text, '[', ']')
}

// FirstJSONObject 取出文字中第一個平衡的 JSON 物件子字串
func FirstJSONObject(text string) (string, bool) {
	return firstBalanced(text, '{', '}')
}

// firstBalanced 掃描第一個 open 到對應 close 的平衡片段，會略過字串字面值
func firstBalanced(text string, open, close rune) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case open:
			if start == -1 {
				start = i
			}
			depth++
		case close:
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// ExtractJSONArray 取出並解析文字中第一個 JSON 陣列
func ExtractJSONArray(text string, v interface{}) error {
	raw, ok := FirstJSONArray(StripCodeFences(text))
	if !ok {
		return fmt.Errorf("no JSON array found in text")
	}
	return ParseJSON(raw, v)
}

// ExtractJSONObject 取出並解析文字中第一個 JSON 物件
func ExtractJSONObject(text string, v interface{}) error {
	raw, ok := FirstJSONObject(StripCodeFences(text))
	if !ok {
		return fmt.Errorf("no JSON object found in text")
	}
	return ParseJSON(raw, v)
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
