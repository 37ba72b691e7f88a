// Package units converts imperial intake measurements into the canonical
// metric values the risk evaluator and the store expect.
//
// Values travel as text end to end. Parsing is lenient about surrounding
// whitespace and treats empty input as zero; anything else that is not a
// number becomes NaN and is formatted back as "NaN" so callers can decide
// whether to reject it.
package units

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// System identifies the measurement system a client entered values in.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

const (
	poundsPerKilogram = 2.205
	cmPerFoot         = 30.48
	cmPerInch         = 2.54
)

// ErrUnknownSystem is returned by ParseSystem for anything but metric/imperial.
var ErrUnknownSystem = errors.New("unknown unit system")

// ParseSystem maps a client supplied unit label to a System. Empty means metric.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Metric):
		return Metric, nil
	case string(Imperial):
		return Imperial, nil
	default:
		return "", ErrUnknownSystem
	}
}

// WeightToKilograms returns raw unchanged for metric input and the pound to
// kilogram conversion for imperial input.
func WeightToKilograms(raw string, sys System) string {
	if sys != Imperial {
		return raw
	}
	return Format(Number(raw) / poundsPerKilogram)
}

// HeightToCentimeters returns feet unchanged for metric input, where the
// first field already carries centimeters. Imperial input is combined as
// feet*30.48 + inches*2.54.
func HeightToCentimeters(feet, inches string, sys System) string {
	if sys != Imperial {
		return feet
	}
	return Format(Number(feet)*cmPerFoot + Number(inches)*cmPerInch)
}

// Number parses s as a whole-string decimal number. Surrounding whitespace is
// ignored, empty input is 0, and anything unparseable is NaN.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// strconv also accepts inf/nan spellings and underscores; those are not numbers here.
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// Format renders f with the shortest representation that round-trips.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsFinite reports whether s parses to a finite number.
func IsFinite(s string) bool {
	f := Number(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
