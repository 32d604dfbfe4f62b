package variant

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/vytor/lute/internal/models"
)

// Checker compares a typed or selected answer with a variant's key.
type Checker struct {
	// TypingTolerance is the edit distance a cloze answer may be off by.
	TypingTolerance int
}

// Check reports whether answer is correct for v.
func (c Checker) Check(v *models.Variant, answer string) (bool, error) {
	if err := v.Validate(); err != nil {
		return false, err
	}
	got := normalize(answer)

	switch v.Kind {
	case models.VariantClassic:
		return got == normalize(v.Classic.Answer), nil
	case models.VariantMCQ:
		return got == normalize(v.MCQ.Answer), nil
	case models.VariantCloze:
		want := normalize(v.Cloze.Answer)
		if got == want {
			return true, nil
		}
		return got != "" && levenshtein.ComputeDistance(got, want) <= c.TypingTolerance, nil
	case models.VariantTrueFalse:
		b, err := parseBool(got)
		if err != nil {
			return false, err
		}
		return b == v.TrueFalse.Answer, nil
	}
	return false, fmt.Errorf("unknown variant type %q", v.Kind)
}

// AutoGrade derives a grade from correctness and answer time: a correct
// answer within 10s is easy, within 30s good, otherwise hard.
func AutoGrade(correct bool, seconds float64) models.Grade {
	switch {
	case !correct:
		return models.GradeWrong
	case seconds <= 10:
		return models.GradeEasy
	case seconds <= 30:
		return models.GradeGood
	default:
		return models.GradeHard
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "t", "yes", "y":
		return true, nil
	case "false", "f", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("answer %q is not true or false", s)
}
