package toggle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSetting is returned for a setting name the snapshot does not
	// hold. It signals a caller bug.
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrConfirmationPending is returned under PendingReject when a guarded
	// toggle arrives while another one awaits confirmation.
	ErrConfirmationPending = errors.New("another confirmation is pending")
	// ErrStoreRequired is returned by New without a store.
	ErrStoreRequired = errors.New("toggle: store is required")
)

// StoreWriteError reports a failed store write. The snapshot keeps the value
// it had before the write was attempted.
type StoreWriteError struct {
	Setting string
	Value   bool
	Err     error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to persist %s=%t: %v", e.Setting, e.Value, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// Hint is shown to the user next to the error.
func (e *StoreWriteError) Hint() string {
	return fmt.Sprintf("%s keeps its previous value; check that the settings store is writable", e.Setting)
}
