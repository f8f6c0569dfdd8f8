package scheduling

import (
	"errors"
	"fmt"
)

// ErrorCode classifies scheduling failures for callers and the HTTP layer.
type ErrorCode string

const (
	// CodeInvalidInput rejects malformed windows or missing fields before
	// any state change.
	CodeInvalidInput ErrorCode = "invalidInput"
	// CodeNotFound rejects operations on ids that do not exist.
	CodeNotFound ErrorCode = "notFound"
	// CodeInvalidState rejects mutations the slot or interview state forbids.
	CodeInvalidState ErrorCode = "invalidState"
	// CodePastWindow rejects deleting a slot whose day has already elapsed.
	CodePastWindow ErrorCode = "pastWindow"
	// CodeSlotUnavailable means the booking race was lost or the slot is no
	// longer bookable; the caller should re-fetch availability.
	CodeSlotUnavailable ErrorCode = "slotUnavailable"
	// CodeProvisioningFailed means the external meeting call failed or timed
	// out; the slot is unchanged and the whole operation is safe to retry.
	CodeProvisioningFailed ErrorCode = "provisioningFailed"
	// CodeBookingPersistFailed means the local write failed after
	// provisioning succeeded and the meeting resource was rolled back.
	CodeBookingPersistFailed ErrorCode = "bookingPersistFailed"
	// CodeBookingInconsistent means rollback itself failed and an orphaned
	// meeting resource exists; ResourceID carries its id for manual
	// reconciliation. Never silent.
	CodeBookingInconsistent ErrorCode = "bookingInconsistent"
)

// Error is the scheduling error type. Match with errors.As.
type Error struct {
	Code       ErrorCode
	Message    string
	ResourceID string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the ErrorCode from err, if it carries one.
func CodeOf(err error) (ErrorCode, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}
