// Package validation holds the field-level checks applied to catalog input.
package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// String reports whether value has at least min characters.
// Characters are counted as Unicode code points and no trimming is applied.
func String(value string, min int) bool {
	return validate.Var(value, fmt.Sprintf("min=%d", min)) == nil
}

// Float reports whether value lies within [min, max].
// NaN and infinities outside the bounds never pass.
func Float(value, min, max float64) bool {
	tag := "gte=" + formatFloat(min) + ",lte=" + formatFloat(max)
	return validate.Var(value, tag) == nil
}

// Int reports whether value lies within [min, max].
func Int(value, min, max int64) bool {
	return validate.Var(value, fmt.Sprintf("gte=%d,lte=%d", min, max)) == nil
}

// Date reports whether value lies within [min, max].
func Date(value, min, max time.Time) bool {
	return !value.Before(min) && !value.After(max)
}

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
