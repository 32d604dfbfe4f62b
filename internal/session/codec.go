package session

import (
	"encoding/json"
	"fmt"

	"github.com/vytor/lute/internal/models"
)

// Encode serialises s for storage.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a stored session and checks that it is internally
// consistent. Callers treat any error as "no prior session".
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate checks the shape of a state read from storage.
func (s State) Validate() error {
	if s.DeckID == "" {
		return fmt.Errorf("session has no deck id")
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("session has invalid mode %q", s.Mode)
	}
	if s.Index < 0 || s.Index > len(s.Queue) {
		return fmt.Errorf("session index %d outside queue of %d", s.Index, len(s.Queue))
	}
	for i, vc := range s.Queue {
		if vc.ID == "" {
			return fmt.Errorf("queue entry %d has no card id", i)
		}
		if s.Mode == models.ModeAI {
			if err := vc.Variant.Validate(); err != nil {
				return fmt.Errorf("queue entry %d: %w", i, err)
			}
		}
	}
	return nil
}
