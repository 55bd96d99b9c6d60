package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrMissingField      = errors.New("required medicine field is empty")
	ErrDuplicateMedicine = errors.New("medicine with the same name already exists")
	ErrEmptyMedicineName = errors.New("medicine name is empty")
	ErrInvalidClockTime  = errors.New("invalid clock time, expected HH:MM")
	ErrSlotCountMismatch = errors.New("reminder times do not match slot count")
	ErrPermissionDenied  = errors.New("notification permission not granted")
	ErrInvalidPermission = errors.New("invalid permission state")
	ErrMalformedRecord   = errors.New("malformed persisted record")
	ErrNoDeliveryChannel = errors.New("no notification delivery channel available")
)

// GapViolation reports that two doses of a medicine are closer than the
// minimum gap. It is returned by the save path and rendered to the user.
type GapViolation struct {
	MedicineName string
	MinGapHours  float64
	First        string
	Second       string
	// WrapAround is set when the offending pair is the last dose of the day
	// and the first dose of the next day.
	WrapAround bool
}

func (v *GapViolation) Error() string {
	return fmt.Sprintf("Doses for %s are too close. Please ensure at least a %s-hour gap.",
		v.MedicineName, strconv.FormatFloat(v.MinGapHours, 'f', -1, 64))
}
