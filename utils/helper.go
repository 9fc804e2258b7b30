package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeCount clamps a counter to the non-negative range. Reconciliation
// math never raises on bad input; garbage becomes zero.
func NormalizeCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ParseCount coerces a loosely-typed counter (UI payloads, uploaded report
// cells) into a non-negative int. nil, empty strings, NaN and negatives all
// normalize to 0.
func ParseCount(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return NormalizeCount(n)
	case int64:
		return NormalizeCount(int(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return NormalizeCount(int(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return NormalizeCount(int(f))
	default:
		return 0
	}
}

func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// DateOnly truncates a timestamp to its UTC calendar day. Daily balance
// grouping must use one single notion of "day" everywhere.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func UniqueSlice[T comparable](slice []T) []T {
	inResult := make(map[T]bool)
	var result []T
	for _, elm := range slice {
		if _, ok := inResult[elm]; !ok {
			inResult[elm] = true
			result = append(result, elm)
		}
	}
	return result
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}
