package bracket

import (
	"errors"
	"fmt"
)

var (
	ErrNoParticipants     = errors.New("no participants registered for this tournament")
	ErrNoCourts           = errors.New("no courts found, create courts before generating matches")
	ErrNoMatches          = errors.New("no matches found for this tournament")
	ErrRoundIncomplete    = errors.New("current round is not complete")
	ErrInvalidWinnerCount = errors.New("no winners found in current round")
	ErrRoundChanged       = errors.New("round changed since it was last read")
	ErrAlreadyGenerated   = errors.New("matches have already been generated for this tournament")

	ErrTie              = errors.New("tie detected, cannot determine winner")
	ErrWinnerNotInMatch = errors.New("winner is not part of this match")
	ErrWinnerRequired   = errors.New("a completed match needs a winner")
	ErrMatchNotReady    = errors.New("match does not have two participants yet")
	ErrInvalidStatus    = errors.New("invalid match status")
	ErrNotRegistered    = errors.New("player is not registered in this tournament")
)

// NoCourtsHint is shown alongside ErrNoCourts.
const NoCourtsHint = "Visit the tournament management page to create courts."

// RoundIncompleteError is returned when advancing while matches in the current round are unresolved.
type RoundIncompleteError struct {
	Round      int
	Incomplete int
}

func (e *RoundIncompleteError) Error() string {
	return fmt.Sprintf("cannot advance round %d, %d match(es) still incomplete", e.Round, e.Incomplete)
}

func (e *RoundIncompleteError) Is(target error) bool {
	return target == ErrRoundIncomplete
}
