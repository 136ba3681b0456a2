// Package render evaluates Handlebars templates against JSON data and
// registers the formatting, comparison, and arithmetic helpers used by
// receipt and label templates. Escaping is disabled throughout: the
// output is fed to printers as raw command bytes, so no substituted
// value may be HTML-escaped.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aymerick/raymond"
)

// Render executes a template against already-decoded data.
func Render(tmpl string, data any) (out string, err error) {
	// The engine reflects over helper arguments; a helper invoked with
	// a wrong shape must surface as an error, never a panic.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("template render error: %v", r)
		}
	}()

	tpl, err := raymond.Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template render error: %w", err)
	}
	registerHelpers(tpl)

	result, err := tpl.Exec(unescaped(data))
	if err != nil {
		return "", fmt.Errorf("template render error: %w", err)
	}
	return result, nil
}

// RenderJSON renders against a raw JSON document as received on the
// wire.
func RenderJSON(tmpl string, data json.RawMessage) (string, error) {
	var v any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &v); err != nil {
			return "", fmt.Errorf("invalid template data: %w", err)
		}
	}
	return Render(tmpl, v)
}

// unescaped marks every string in the data tree as safe so the engine
// substitutes it verbatim.
func unescaped(v any) any {
	switch t := v.(type) {
	case string:
		return raymond.SafeString(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = unescaped(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = unescaped(val)
		}
		return s
	default:
		return v
	}
}

func registerHelpers(tpl *raymond.Template) {
	tpl.RegisterHelpers(map[string]interface{}{
		"format_number": func(v, decimals interface{}) raymond.SafeString {
			return raymond.SafeString(strconv.FormatFloat(toFloat(v), 'f', toInt(decimals), 64))
		},
		"currency": func(v interface{}) raymond.SafeString {
			return raymond.SafeString("¥" + strconv.FormatFloat(toFloat(v), 'f', 2, 64))
		},
		// The format argument is accepted for wire compatibility but
		// the output shape is fixed.
		"date_format": func(millis, format interface{}) raymond.SafeString {
			return raymond.SafeString(formatEpoch(int64(toFloat(millis)) / 1000))
		},
		"pad_left": func(v, width, fill interface{}) raymond.SafeString {
			s := toStr(v)
			if n := toInt(width) - utf8.RuneCountInString(s); n > 0 {
				s = strings.Repeat(fillChar(fill), n) + s
			}
			return raymond.SafeString(s)
		},
		"pad_right": func(v, width, fill interface{}) raymond.SafeString {
			s := toStr(v)
			if n := toInt(width) - utf8.RuneCountInString(s); n > 0 {
				s += strings.Repeat(fillChar(fill), n)
			}
			return raymond.SafeString(s)
		},
		"repeat": func(v, times interface{}) raymond.SafeString {
			return raymond.SafeString(strings.Repeat(toStr(v), toInt(times)))
		},
		"truncate": func(v, maxLen interface{}) raymond.SafeString {
			s := toStr(v)
			limit := toInt(maxLen)
			runes := []rune(s)
			if len(runes) <= limit {
				return raymond.SafeString(s)
			}
			return raymond.SafeString(string(runes[:limit]))
		},
		"uppercase": func(v interface{}) raymond.SafeString {
			return raymond.SafeString(strings.ToUpper(toStr(v)))
		},
		"lowercase": func(v interface{}) raymond.SafeString {
			return raymond.SafeString(strings.ToLower(toStr(v)))
		},
		"eq": func(a, b interface{}) raymond.SafeString {
			return truthy(toStr(a) == toStr(b))
		},
		"ne": func(a, b interface{}) raymond.SafeString {
			return truthy(toStr(a) != toStr(b))
		},
		"gt": func(a, b interface{}) raymond.SafeString {
			return truthy(toFloat(a) > toFloat(b))
		},
		"lt": func(a, b interface{}) raymond.SafeString {
			return truthy(toFloat(a) < toFloat(b))
		},
		"add": func(a, b interface{}) raymond.SafeString {
			return formatFloat(toFloat(a) + toFloat(b))
		},
		"sub": func(a, b interface{}) raymond.SafeString {
			return formatFloat(toFloat(a) - toFloat(b))
		},
		"mul": func(a, b interface{}) raymond.SafeString {
			return formatFloat(toFloat(a) * toFloat(b))
		},
		"div": func(a, b interface{}) raymond.SafeString {
			if toFloat(b) == 0 {
				return formatFloat(0)
			}
			return formatFloat(toFloat(a) / toFloat(b))
		},
	})
}

// truthy yields the marker consumed by {{#if}} subexpressions.
func truthy(ok bool) raymond.SafeString {
	if ok {
		return "true"
	}
	return ""
}

func formatFloat(f float64) raymond.SafeString {
	return raymond.SafeString(strconv.FormatFloat(f, 'f', -1, 64))
}

func fillChar(v interface{}) string {
	s := toStr(v)
	if s == "" {
		return " "
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func toStr(v interface{}) string {
	return raymond.Str(v)
}

// toFloat coerces helper arguments numerically; anything non-numeric
// becomes 0.
func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	case raymond.SafeString:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toInt(v interface{}) int {
	return int(toFloat(v))
}

// formatEpoch converts seconds since the epoch to
// "YYYY-MM-DD HH:MM:SS" with a self-contained proleptic Gregorian
// computation, so the renderer carries no calendar dependency.
func formatEpoch(secs int64) string {
	days := secs / 86400
	timeOfDay := secs % 86400

	hours := timeOfDay / 3600
	minutes := (timeOfDay % 3600) / 60
	seconds := timeOfDay % 60

	year := int64(1970)
	for {
		daysInYear := int64(365)
		if isLeapYear(year) {
			daysInYear = 366
		}
		if days < daysInYear {
			break
		}
		days -= daysInYear
		year++
	}

	daysInMonths := [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if isLeapYear(year) {
		daysInMonths[1] = 29
	}

	month := 1
	for _, n := range daysInMonths {
		if days < n {
			break
		}
		days -= n
		month++
	}
	day := days + 1

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hours, minutes, seconds)
}

func isLeapYear(year int64) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
