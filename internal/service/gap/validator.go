// Package gap enforces the minimum spacing between a medicine's daily doses,
// including the overnight gap from the last dose to the next day's first.
package gap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

type Validator struct {
	defaultGapHours float64
}

func NewValidator(defaultGapHours float64) *Validator {
	if defaultGapHours <= 0 {
		defaultGapHours = domain.DefaultGapHours
	}
	return &Validator{
		defaultGapHours: defaultGapHours,
	}
}

func (v *Validator) DefaultGapHours() float64 {
	return v.defaultGapHours
}

// Validate checks that every pair of consecutive doses, and the wrap-around
// pair, are at least minGapHours apart. Empty entries are ignored and fewer
// than two times always pass. The returned violation has no medicine name.
func Validate(times []string, minGapHours float64) error {
	filled := domain.CompactTimes(times)
	if len(filled) < 2 {
		return nil
	}

	minutes := make([]int, 0, len(filled))
	for _, t := range filled {
		m, err := domain.ParseClockTime(t)
		if err != nil {
			return err
		}
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	minGapMinutes := int(math.Ceil(minGapHours * 60))

	for i := 0; i < len(minutes)-1; i++ {
		if minutes[i+1]-minutes[i] < minGapMinutes {
			return &domain.GapViolation{
				MinGapHours: minGapHours,
				First:       domain.FormatClockTime(minutes[i]),
				Second:      domain.FormatClockTime(minutes[i+1]),
			}
		}
	}

	// The earliest dose taken tomorrow, measured from today's latest dose.
	last := minutes[len(minutes)-1]
	first := minutes[0] + domain.MinutesPerDay
	if first-last < minGapMinutes {
		return &domain.GapViolation{
			MinGapHours: minGapHours,
			First:       domain.FormatClockTime(last),
			Second:      domain.FormatClockTime(minutes[0]),
			WrapAround:  true,
		}
	}

	return nil
}

// ValidateMedicine validates the medicine's chosen times against its own
// time_gap_hours or the validator default.
func (v *Validator) ValidateMedicine(m *domain.Medicine) error {
	err := Validate(m.ReminderTimes, m.GapHours(v.defaultGapHours))
	if err == nil {
		return nil
	}

	var violation *domain.GapViolation
	if errors.As(err, &violation) {
		violation.MedicineName = m.Name
		return violation
	}

	return fmt.Errorf("medicine %s: %w", m.Name, err)
}

// ValidateAll stops at the first medicine that fails.
func (v *Validator) ValidateAll(medicines []domain.Medicine) error {
	for i := range medicines {
		if err := v.ValidateMedicine(&medicines[i]); err != nil {
			return err
		}
	}
	return nil
}
