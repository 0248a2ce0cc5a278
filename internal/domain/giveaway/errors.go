package giveaway

import (
	"errors"
	"fmt"
)

var (
	ErrRoundConflict           = errors.New("a giveaway round is already active")
	ErrRoundNotFound           = errors.New("giveaway round not found")
	ErrRoundAlreadyCompleted   = errors.New("giveaway round already completed")
	ErrNoActiveRound           = errors.New("no active giveaway round")
	ErrAgeRequirementNotMet    = errors.New("account is too new to claim a key")
	ErrAlreadyClaimedThisRound = errors.New("user already claimed a key this round")
	ErrNoKeysAvailable         = errors.New("no keys available")
	ErrInvalidUsername         = errors.New("username cannot be empty")
	ErrConfigNotFound          = errors.New("config entry not found")
	ErrKeyRoleRequired         = errors.New("member does not hold the key role")
)

var domainErrors = []error{
	ErrRoundConflict,
	ErrRoundNotFound,
	ErrRoundAlreadyCompleted,
	ErrNoActiveRound,
	ErrAgeRequirementNotMet,
	ErrAlreadyClaimedThisRound,
	ErrNoKeysAvailable,
	ErrInvalidUsername,
	ErrConfigNotFound,
	ErrKeyRoleRequired,
}

// StorageError reports a failure of the underlying store, as opposed to a
// rejected operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsDomainError reports whether err is one of the giveaway rejections.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func wrapStorage(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
