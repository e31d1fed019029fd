package browse

import (
	"time"

	"github.com/ecobasket/ecobasket/internal/utils"
)

// Op identifies one kind of render instruction.
type Op string

const (
	OpSetChips     Op = "set-chips"
	OpClearCards   Op = "clear-cards"
	OpSetStatus    Op = "set-status"
	OpAddCard      Op = "add-card"
	OpNavigate     Op = "navigate"
	OpCardFeedback Op = "card-feedback"
	OpAlert        Op = "alert"
)

// Instruction is one step a render surface must apply, in order. The
// controller emits instructions instead of touching any UI directly,
// which keeps its logic testable without a display.
type Instruction struct {
	Op     Op
	Status string
	Chips  []Chip
	Card   *Card

	// Navigation target, for OpNavigate.
	Target string

	// Transient control feedback, for OpCardFeedback.
	Code     string
	Feedback string
	Revert   time.Duration

	// Alert text, for OpAlert.
	Message string
}

// Chip is one entry of the category selector.
type Chip struct {
	Name   string
	Active bool
}

// Surface is the thin adapter translating instructions into actual UI
// calls: a terminal, a test recorder, anything with a notion of cards
// and a status line.
type Surface interface {
	SetChips([]Chip)
	ClearCards()
	SetStatus(string)
	AddCard(Card)
	Navigate(target string)
	CardFeedback(code, label string, revert time.Duration)
	Alert(message string)
}

// Apply runs instructions against a surface in order. A missing
// surface degrades silently: the render is logged and skipped.
func Apply(surface Surface, instructions []Instruction) {
	if surface == nil {
		utils.Log.Warn("browse: no render surface attached, skipping render")
		return
	}
	for _, in := range instructions {
		switch in.Op {
		case OpSetChips:
			surface.SetChips(in.Chips)
		case OpClearCards:
			surface.ClearCards()
		case OpSetStatus:
			surface.SetStatus(in.Status)
		case OpAddCard:
			if in.Card != nil {
				surface.AddCard(*in.Card)
			}
		case OpNavigate:
			surface.Navigate(in.Target)
		case OpCardFeedback:
			surface.CardFeedback(in.Code, in.Feedback, in.Revert)
		case OpAlert:
			surface.Alert(in.Message)
		}
	}
}
