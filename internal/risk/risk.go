// Package risk scores an intake questionnaire. Evaluate is pure and total:
// every input yields an assessment, malformed numbers included.
package risk

import (
	"math"
	"strconv"
	"strings"

	"github.com/tbourn/go-intake-backend/internal/domain"
)

// Thresholds above which an intake is high risk.
const (
	AgeThreshold    = 60
	WeightThreshold = 80.0
)

// Level is the coarse classification exposed to metrics and events.
type Level string

const (
	LevelLow  Level = "low"
	LevelHigh Level = "high"
)

const (
	RecommendationHigh = "High risk – Recommend immediate evaluation."
	RecommendationLow  = "Low risk – Recommend maintaining current habits."
)

// Assessment is the evaluator output. Score and Recommendation always agree.
type Assessment struct {
	Score          int
	Level          Level
	Recommendation string
}

// Evaluate classifies in as high risk when age exceeds 60 or weight (kg)
// exceeds 80. Only age and weight are read. Unparseable values compare false
// and therefore land in the low tier.
func Evaluate(in domain.IntakeData) Assessment {
	age := LeadingInt(in.Age)
	weight := LeadingFloat(in.Weight)
	if age > AgeThreshold || weight > WeightThreshold {
		return Assessment{Score: domain.RiskHigh, Level: LevelHigh, Recommendation: RecommendationHigh}
	}
	return Assessment{Score: domain.RiskLow, Level: LevelLow, Recommendation: RecommendationLow}
}

// LeadingInt parses the longest signed integer prefix of s after trimming
// leading whitespace ("70.9" -> 70, "42 years" -> 42). No digits yields NaN.
func LeadingInt(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// LeadingFloat parses the longest decimal prefix of s after trimming leading
// whitespace ("81kg" -> 81, "1.5e2x" -> 150). "Infinity" is honored. No
// numeric prefix yields NaN.
func LeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	sign := ""
	rest := s
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		sign, rest = rest[:1], rest[1:]
	}
	if strings.HasPrefix(rest, "Infinity") {
		if sign == "-" {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	i := 0
	intDigits := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(rest) && rest[i] == '.' {
		j := i + 1
		for j < len(rest) && isDigit(rest[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return math.NaN()
	}
	if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
		j := i + 1
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			j++
		}
		k := j
		for k < len(rest) && isDigit(rest[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	// Out of range values come back as ±Inf alongside ErrRange.
	f, _ := strconv.ParseFloat(sign+rest[:i], 64)
	return f
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
