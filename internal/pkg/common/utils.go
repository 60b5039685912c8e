package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ClampInt 將數值限制在 [min, max] 區間
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// TruncateStrings 截斷字串切片至最多 n 個元素
func TruncateStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
