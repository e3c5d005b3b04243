package linkage

import (
	"fmt"

	"github.com/huapala/huapala/internal/util"
)

// NotFoundError is returned when a status update names a key that was never
// loaded. It signals a caller or data bug and should not be retried.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("linkage %s not found", e.Key)
}

// Is matches util.ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == util.ErrNotFound
}

// LoadError is returned when suggestions or overrides could not be loaded.
// The previously loaded collection is left untouched.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load linkages: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches util.ErrLoad
func (e *LoadError) Is(target error) bool {
	return target == util.ErrLoad
}

// NotificationError is returned when an approval was committed but the
// create-linkage notification failed. It is a warning: the status change
// is not rolled back.
type NotificationError struct {
	Key Key
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("linkage %s approved but notification failed: %v", e.Key, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Is matches util.ErrNotification
func (e *NotificationError) Is(target error) bool {
	return target == util.ErrNotification
}
