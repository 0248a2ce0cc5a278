package utils

import (
	"errors"
	"fmt"

	"github.com/disgoorg/keybot/internal/domain/giveaway"
)

// MessageOptions carries the values some messages mention.
type MessageOptions struct {
	AgeBound int
}

// ErrorMessage translates a giveaway error into what the user is shown.
// Storage failures never leak their details.
func ErrorMessage(err error, opts MessageOptions) (ErrorType, string) {
	switch {
	case errors.Is(err, giveaway.ErrNoActiveRound):
		return BusinessLogicError, "There is no key giveaway running right now."
	case errors.Is(err, giveaway.ErrAgeRequirementNotMet):
		return BusinessLogicError, fmt.Sprintf("Your account must be at least %d days old to claim a key.", opts.AgeBound)
	case errors.Is(err, giveaway.ErrAlreadyClaimedThisRound):
		return BusinessLogicError, "You already claimed a key this round."
	case errors.Is(err, giveaway.ErrNoKeysAvailable):
		return BusinessLogicError, "All keys have been claimed. Check back next round!"
	case errors.Is(err, giveaway.ErrRoundConflict):
		return BusinessLogicError, "A giveaway round is already active. End it before starting a new one."
	case errors.Is(err, giveaway.ErrRoundNotFound):
		return NotFoundError, "That giveaway round does not exist."
	case errors.Is(err, giveaway.ErrRoundAlreadyCompleted):
		return BusinessLogicError, "That giveaway round has already ended."
	case errors.Is(err, giveaway.ErrInvalidUsername):
		return UserError, "That username is not valid."
	case errors.Is(err, giveaway.ErrConfigNotFound):
		return UserError, "No key role has been set yet. Use /set-key-role first."
	case errors.Is(err, giveaway.ErrKeyRoleRequired):
		return PermissionError, "You don't have the role needed to claim keys from this giveaway."
	default:
		return SystemError, "Something went wrong while handing out keys. Please try again later."
	}
}
