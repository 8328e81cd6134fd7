// Package validate turns raw request input into normalized values and
// query conditions. Each validator stops at the first field that fails and
// reports it as a *domain.Error of kind validation.
package validate

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const minYear = 1900

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	hasLetter  = regexp.MustCompile(`[a-zA-Z]`)

	userNamePattern = regexp.MustCompile(`^[a-zA-Z\s]{3,100}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	phonePattern    = regexp.MustCompile(`^(0|\+98)9\d{9}$`)

	// RE2 has no lookahead, so each password class is its own pattern.
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[\W_]`),
	}
)

// now is swapped in tests that pin the calendar year.
var now = time.Now

func currentYear() int {
	return now().Year()
}

type textField struct {
	key   string
	label string
	max   int
}

var carTextFields = []textField{
	{key: "name", label: "Car Name", max: 100},
	{key: "brand", label: "Brand", max: 50},
	{key: "model", label: "Model", max: 50},
	{key: "color", label: "Color", max: 30},
}

// carText trims v and rejects empty, over-long or purely numeric values.
func carText(v any, max int) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max || digitsOnly.MatchString(s) {
		return "", false
	}
	return s, true
}

// searchText is the looser search variant: any value containing a letter.
func searchText(raw string, max int) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || utf8.RuneCountInString(s) > max || !hasLetter.MatchString(s) {
		return "", false
	}
	return s, true
}

// number accepts JSON numbers only; numeric strings are rejected.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isWhole(f float64) bool {
	return f == math.Trunc(f)
}

func year(v any) (int, bool) {
	f, ok := number(v)
	if !ok || !isWhole(f) {
		return 0, false
	}
	return yearInRange(f)
}

func yearInRange(f float64) (int, bool) {
	if f < minYear || f > float64(currentYear()) {
		return 0, false
	}
	return int(f), true
}

// maxAmount is the largest value a NUMERIC(12, 2) column holds.
const maxAmount = 9999999999.99

func nonNegative(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || f < 0 || f > maxAmount {
		return 0, false
	}
	return f, true
}

// parseNumber reads a query-string number. Surrounding spaces are ignored.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseYear(raw string) (int, bool) {
	f, ok := parseNumber(raw)
	if !ok || !isWhole(f) {
		return 0, false
	}
	return yearInRange(f)
}

func parseCount(raw string) (int64, bool) {
	f, ok := parseNumber(raw)
	if !ok || !isWhole(f) || f < 0 {
		return 0, false
	}
	return int64(f), true
}

// exact requires v to be a string with no surrounding whitespace.
func exact(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s != strings.TrimSpace(s) {
		return "", false
	}
	return s, true
}

func userName(v any) (string, bool) {
	s, ok := exact(v)
	if !ok || !userNamePattern.MatchString(s) {
		return "", false
	}
	return s, true
}

func email(v any) (string, bool) {
	s, ok := exact(v)
	if !ok || len(s) > 254 || !emailPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

func phoneNumber(v any) (string, bool) {
	s, ok := exact(v)
	if !ok || len(s) > 15 || !phonePattern.MatchString(s) {
		return "", false
	}
	return s, true
}

func password(v any) (string, bool) {
	s, ok := exact(v)
	if !ok {
		return "", false
	}
	if n := utf8.RuneCountInString(s); n < 8 || n > 64 {
		return "", false
	}
	if strings.ContainsAny(s, "\n\r\u2028\u2029") {
		return "", false
	}
	for _, class := range passwordClasses {
		if !class.MatchString(s) {
			return "", false
		}
	}
	return s, true
}

// truthy mirrors the "value was supplied" check used by login: nil, false,
// zero and the empty string all count as missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}
