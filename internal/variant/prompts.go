package variant

import (
	"fmt"

	"github.com/vytor/lute/internal/models"
)

const systemPrompt = "You turn flashcards into quiz questions. Reply with a single JSON object and nothing else."

const mcqPrompt = `Return ONLY valid JSON, no extra text:
{"type":"mcq","prompt":"question text","options":["A","B","C","D"],"answer":"correct option"}

Create a multiple-choice question from the flashcard. One correct answer, three plausible distractors. The "answer" field must exactly match one option.

Flashcard Q: %s
Flashcard A: %s

JSON only:`

const clozePrompt = `Return ONLY valid JSON, no extra text:
{"type":"cloze","prompt":"sentence with _____","answer":"word(s) for blank"}

Create a cloze deletion: if the Answer appears in Question, replace it with "_____". Otherwise, insert Answer naturally then replace with "_____". Keep original wording. ONE blank, 1-4 words.

Flashcard Q: %s
Flashcard A: %s

JSON only:`

const trueFalsePrompt = `Return ONLY valid JSON, no extra text:
{"type":"tf","prompt":"statement text","answer":true}

Create a declarative statement from the flashcard. Randomly make it true OR false (if false, change one fact). The "answer" field is a boolean.

Flashcard Q: %s
Flashcard A: %s

JSON only:`

func promptFor(kind models.VariantKind, card models.Card) (string, error) {
	var tmpl string
	switch kind {
	case models.VariantMCQ:
		tmpl = mcqPrompt
	case models.VariantCloze:
		tmpl = clozePrompt
	case models.VariantTrueFalse:
		tmpl = trueFalsePrompt
	default:
		return "", fmt.Errorf("no prompt for variant type %q", kind)
	}
	return fmt.Sprintf(tmpl, card.Question, card.Answer), nil
}
