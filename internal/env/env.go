package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func GetString(key, fallback string) string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return val
}

func GetInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	valInt, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return valInt
}

// GetDecimal reads a decimal value; malformed or absent values fall back.
func GetDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := decimal.NewFromString(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return d
}

// GetDate reads a YYYY-MM-DD date.
func GetDate(key string, fallback time.Time) time.Time {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return t
}

// GetStringSlice reads a comma-separated list, dropping empty elements.
func GetStringSlice(key string) []string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetIntSlice reads a comma-separated list of integers, dropping anything
// unparsable.
func GetIntSlice(key string) []int {
	var out []int
	for _, part := range GetStringSlice(key) {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
