package models

import (
	"fmt"
	"strings"
)

// Grade is the user-supplied recall quality for a single review.
type Grade string

const (
	GradeWrong Grade = "wrong"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// Valid reports whether g is a known grade.
func (g Grade) Valid() bool {
	switch g {
	case GradeWrong, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// Passed reports whether the grade counts as a successful recall.
func (g Grade) Passed() bool {
	return g.Valid() && g != GradeWrong
}

// ParseGrade parses a grade name, case-insensitively.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", s)
	}
	return g, nil
}
