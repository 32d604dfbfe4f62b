package session

import "github.com/vytor/lute/internal/models"

// InsertAt returns a new queue with v inserted before position pos, so
// that v ends up at index pos. pos is clamped to [0, len(q)]; pos == len(q)
// appends. q itself is never modified.
func InsertAt(q []models.VariantCard, pos int, v models.VariantCard) []models.VariantCard {
	pos = max(0, min(pos, len(q)))
	out := make([]models.VariantCard, 0, len(q)+1)
	out = append(out, q[:pos]...)
	out = append(out, v)
	return append(out, q[pos:]...)
}

// ReplaceAt returns a new queue with the entry at i replaced by v. An out
// of range i returns a plain copy.
func ReplaceAt(q []models.VariantCard, i int, v models.VariantCard) []models.VariantCard {
	out := clone(q)
	if i >= 0 && i < len(out) {
		out[i] = v
	}
	return out
}

func clone(q []models.VariantCard) []models.VariantCard {
	if q == nil {
		return nil
	}
	out := make([]models.VariantCard, len(q))
	copy(out, q)
	return out
}
