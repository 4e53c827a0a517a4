package model

import (
	"strconv"
	"strings"
)

// Values holds the named parameter values of one invocation, keyed by
// parameter name. A missing key reads as Unset, matching how the
// geoprocessing dialog reports an empty optional parameter.
type Values map[string]string

// Get returns the value for name, or Unset when it was never provided.
func (v Values) Get(name string) string {
	if s, ok := v[name]; ok {
		return s
	}
	return Unset
}

// IsSet reports whether name carries a value other than Unset.
func (v Values) IsSet(name string) bool {
	return v.Get(name) != Unset
}

// IsTrue reports whether name is the boolean "true" of a dialog checkbox.
func (v Values) IsTrue(name string) bool {
	return IsTrue(v.Get(name))
}

// IsFalse reports whether name is the boolean "false" of a dialog checkbox.
// An unset checkbox is neither true nor false.
func (v Values) IsFalse(name string) bool {
	return v.Get(name) == "false"
}

// Decimal returns the value for name with decimal commas normalized.
func (v Values) Decimal(name string) string {
	return NormalizeDecimal(v.Get(name))
}

// IsTrue reports whether s is the dialog boolean "true".
func IsTrue(s string) bool {
	return s == "true"
}

// NormalizeDecimal replaces locale decimal commas with periods, so that
// "1,5" typed in a German or French ArcGIS installation becomes "1.5".
// LAStools only accepts the period form.
func NormalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// IsNumeric reports whether s parses as a number once decimal commas
// are normalized.
func IsNumeric(s string) bool {
	_, err := strconv.ParseFloat(NormalizeDecimal(strings.TrimSpace(s)), 64)
	return err == nil
}

// ScaleDecimal multiplies the numeric value s by factor and formats the
// product with FormatFloat. Pipelines use it for derived sizes such as
// the thinning step (a quarter of the raster step).
func ScaleDecimal(s string, factor float64) (string, error) {
	f, err := strconv.ParseFloat(NormalizeDecimal(strings.TrimSpace(s)), 64)
	if err != nil {
		return "", err
	}
	return FormatFloat(f * factor), nil
}

// FormatFloat renders f with the fewest digits that round-trip, without
// an exponent: 0.5 -> "0.5", 6 -> "6", 12.5 -> "12.5".
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
