// Package combo holds the combo domain shared by the server and the client:
// the step/move types, the wire codec for step lists and the move catalog.
package combo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Stance is the practitioner's orientation.
type Stance string

const (
	// StanceOrthodox is primary hand forward.
	StanceOrthodox Stance = "destro"
	// StanceSouthpaw is off hand forward. Sided move names are mirrored for it.
	StanceSouthpaw Stance = "canhoto"
)

// Valid reports whether s is a known stance.
func (s Stance) Valid() bool {
	return s == StanceOrthodox || s == StanceSouthpaw
}

// Category tags a move.
type Category string

const (
	CategoryAttack   Category = "ATAQUE"
	CategoryEvasion  Category = "ESQUIVA"
	CategoryBlock    Category = "BLOQUEIO"
	CategoryFootwork Category = "FOOTWORK"
	CategoryClinch   Category = "CLINCH"
)

// Categories lists every move category in display order.
var Categories = []Category{CategoryAttack, CategoryEvasion, CategoryBlock, CategoryFootwork, CategoryClinch}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Move is a single technique.
type Move struct {
	Name     string   `json:"nome"`
	Category Category `json:"categoria"`
	Variant  string   `json:"variacao,omitempty"`
}

// Step is one beat of a combo.
type Step struct {
	Moves []Move `json:"golpes"`
}

// EncodeSteps serializes steps into the text blob stored per combo.
// A nil list encodes as "[]" and nil move lists as empty arrays.
func EncodeSteps(steps []Step) (string, error) {
	out := make([]Step, len(steps))
	for i, s := range steps {
		moves := s.Moves
		if moves == nil {
			moves = []Move{}
		}
		out[i] = Step{Moves: moves}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode steps: %w", err)
	}
	return string(b), nil
}

// DecodeSteps parses a stored blob. It never fails: an unreadable blob
// yields an empty, non-nil step list so the owning combo stays usable.
func DecodeSteps(blob string) []Step {
	steps, err := parseSteps([]byte(blob))
	if err != nil {
		return []Step{}
	}
	return steps
}

// ParseSteps accepts a step list sent by a client either as a JSON array or as
// a JSON string holding the encoded array, and returns it strictly.
func ParseSteps(raw json.RawMessage) ([]Step, error) {
	return parseSteps(raw)
}

func parseSteps(raw []byte) ([]Step, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("steps are empty")
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return nil, fmt.Errorf("decode steps string: %w", err)
		}
		trimmed = strings.TrimSpace(inner)
		if strings.HasPrefix(trimmed, `"`) {
			return nil, fmt.Errorf("steps are encoded more than once")
		}
	}

	var steps []Step
	if err := json.Unmarshal([]byte(trimmed), &steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	if steps == nil {
		return nil, fmt.Errorf("steps are empty")
	}
	for i := range steps {
		if steps[i].Moves == nil {
			steps[i].Moves = []Move{}
		}
	}
	return steps, nil
}

// Finalize drops steps that are still empty from authoring and validates the rest.
// A finalized combo has at least one step and every move is named and categorized.
func Finalize(steps []Step) ([]Step, error) {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if len(s.Moves) == 0 {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("a combo needs at least one step with a move")
	}
	for i, s := range out {
		for j, m := range s.Moves {
			if strings.TrimSpace(m.Name) == "" {
				return nil, fmt.Errorf("step %d move %d has no name", i+1, j+1)
			}
			if !m.Category.Valid() {
				return nil, fmt.Errorf("step %d move %d has unknown category %q", i+1, j+1, m.Category)
			}
		}
	}
	return out, nil
}

// CountMoves returns the number of moves across all steps.
func CountMoves(steps []Step) int {
	n := 0
	for _, s := range steps {
		n += len(s.Moves)
	}
	return n
}
