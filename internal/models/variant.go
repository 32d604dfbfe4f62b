package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VariantKind tags the presentation a card is quizzed with.
type VariantKind string

const (
	VariantClassic   VariantKind = "classic"
	VariantMCQ       VariantKind = "mcq"
	VariantCloze     VariantKind = "cloze"
	VariantTrueFalse VariantKind = "tf"
)

type Classic struct {
	Prompt string
	Answer string
}

type MultipleChoice struct {
	Prompt  string
	Options []string
	Answer  string
}

type Cloze struct {
	Prompt string
	Answer string
}

type TrueFalse struct {
	Prompt string
	Answer bool
}

// Variant is a tagged union: exactly one payload matching Kind is set.
// It serialises to the flat {"type": ..., "prompt": ..., "answer": ...} shape.
type Variant struct {
	Kind      VariantKind
	Classic   *Classic
	MCQ       *MultipleChoice
	Cloze     *Cloze
	TrueFalse *TrueFalse
}

func NewClassic(prompt, answer string) *Variant {
	return &Variant{Kind: VariantClassic, Classic: &Classic{Prompt: prompt, Answer: answer}}
}

func NewMCQ(prompt string, options []string, answer string) *Variant {
	return &Variant{Kind: VariantMCQ, MCQ: &MultipleChoice{Prompt: prompt, Options: options, Answer: answer}}
}

func NewCloze(prompt, answer string) *Variant {
	return &Variant{Kind: VariantCloze, Cloze: &Cloze{Prompt: prompt, Answer: answer}}
}

func NewTrueFalse(prompt string, answer bool) *Variant {
	return &Variant{Kind: VariantTrueFalse, TrueFalse: &TrueFalse{Prompt: prompt, Answer: answer}}
}

// Prompt returns the text shown to the user.
func (v *Variant) Prompt() string {
	switch v.Kind {
	case VariantClassic:
		return v.Classic.Prompt
	case VariantMCQ:
		return v.MCQ.Prompt
	case VariantCloze:
		return v.Cloze.Prompt
	case VariantTrueFalse:
		return v.TrueFalse.Prompt
	default:
		return ""
	}
}

// Validate checks that the payload for Kind is present and well formed.
func (v *Variant) Validate() error {
	if v == nil {
		return fmt.Errorf("variant is nil")
	}
	switch v.Kind {
	case VariantClassic:
		if v.Classic == nil || strings.TrimSpace(v.Classic.Prompt) == "" {
			return fmt.Errorf("classic variant missing prompt")
		}
	case VariantMCQ:
		if v.MCQ == nil || strings.TrimSpace(v.MCQ.Prompt) == "" {
			return fmt.Errorf("mcq variant missing prompt")
		}
		if len(v.MCQ.Options) < 2 {
			return fmt.Errorf("mcq variant needs at least 2 options, got %d", len(v.MCQ.Options))
		}
		found := false
		for _, o := range v.MCQ.Options {
			if o == v.MCQ.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("mcq answer %q is not one of the options", v.MCQ.Answer)
		}
	case VariantCloze:
		if v.Cloze == nil || strings.TrimSpace(v.Cloze.Prompt) == "" || strings.TrimSpace(v.Cloze.Answer) == "" {
			return fmt.Errorf("cloze variant missing prompt or answer")
		}
	case VariantTrueFalse:
		if v.TrueFalse == nil || strings.TrimSpace(v.TrueFalse.Prompt) == "" {
			return fmt.Errorf("true/false variant missing prompt")
		}
	default:
		return fmt.Errorf("unknown variant type %q", v.Kind)
	}
	return nil
}

type variantJSON struct {
	Type    VariantKind     `json:"type"`
	Prompt  string          `json:"prompt"`
	Options []string        `json:"options,omitempty"`
	Answer  json.RawMessage `json:"answer"`
}

func (v Variant) MarshalJSON() ([]byte, error) {
	out := variantJSON{Type: v.Kind}
	var answer any
	switch v.Kind {
	case VariantClassic:
		if v.Classic == nil {
			return nil, fmt.Errorf("classic variant without payload")
		}
		out.Prompt, answer = v.Classic.Prompt, v.Classic.Answer
	case VariantMCQ:
		if v.MCQ == nil {
			return nil, fmt.Errorf("mcq variant without payload")
		}
		out.Prompt, out.Options, answer = v.MCQ.Prompt, v.MCQ.Options, v.MCQ.Answer
	case VariantCloze:
		if v.Cloze == nil {
			return nil, fmt.Errorf("cloze variant without payload")
		}
		out.Prompt, answer = v.Cloze.Prompt, v.Cloze.Answer
	case VariantTrueFalse:
		if v.TrueFalse == nil {
			return nil, fmt.Errorf("tf variant without payload")
		}
		out.Prompt, answer = v.TrueFalse.Prompt, v.TrueFalse.Answer
	default:
		return nil, fmt.Errorf("unknown variant type %q", v.Kind)
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}
	out.Answer = raw
	return json.Marshal(out)
}

func (v *Variant) UnmarshalJSON(data []byte) error {
	var in variantJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = Variant{Kind: in.Type}
	switch in.Type {
	case VariantTrueFalse:
		var b bool
		if err := json.Unmarshal(in.Answer, &b); err != nil {
			return fmt.Errorf("tf answer must be a boolean: %w", err)
		}
		v.TrueFalse = &TrueFalse{Prompt: in.Prompt, Answer: b}
		return nil
	case VariantClassic, VariantMCQ, VariantCloze:
	default:
		return fmt.Errorf("unknown variant type %q", in.Type)
	}

	var s string
	if len(in.Answer) > 0 {
		if err := json.Unmarshal(in.Answer, &s); err != nil {
			return fmt.Errorf("%s answer must be a string: %w", in.Type, err)
		}
	}
	switch in.Type {
	case VariantClassic:
		v.Classic = &Classic{Prompt: in.Prompt, Answer: s}
	case VariantMCQ:
		v.MCQ = &MultipleChoice{Prompt: in.Prompt, Options: in.Options, Answer: s}
	case VariantCloze:
		v.Cloze = &Cloze{Prompt: in.Prompt, Answer: s}
	}
	return nil
}

// VariantCard is a card snapshot enriched for a single review session.
// Each occurrence in a session queue is distinct, even for the same card ID.
type VariantCard struct {
	Card
	Variant          *Variant       `json:"variant"`
	RunReturnedCount int            `json:"runReturnedCount"`
	StatusData       []StatusEffect `json:"statusData,omitempty"`
}

// ReviewMode selects how cards are presented in a session.
type ReviewMode string

const (
	ModeClassic ReviewMode = "classic"
	ModeAI      ReviewMode = "ai"
)

func (m ReviewMode) Valid() bool {
	return m == ModeClassic || m == ModeAI
}

// Other returns the opposite mode.
func (m ReviewMode) Other() ReviewMode {
	if m == ModeAI {
		return ModeClassic
	}
	return ModeAI
}
