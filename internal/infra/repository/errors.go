package repository

import "errors"

var (
	ErrInvalidReminderData = errors.New("invalid reminder data")
	ErrInvalidDedupeData   = errors.New("invalid dedupe mark")
)
