package domain

import "strings"

// DefaultGapHours applies when a medicine carries no usable time_gap_hours.
const DefaultGapHours = 4.0

// Medicine is one extracted or manually entered item of the active analysis.
// ID is assigned when the medicine enters the session; persisted reminders
// stay keyed by Name.
type Medicine struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Dosage        string   `json:"dosage"`
	Frequency     string   `json:"frequency"`
	Timing        string   `json:"timing"`
	Reason        string   `json:"reason,omitempty"`
	TimeGapHours  *float64 `json:"time_gap_hours,omitempty"`
	ReminderTimes []string `json:"reminderTimes"`
}

// GapHours returns the minimum inter-dose gap for the medicine, falling back
// to fallback when the value is absent or non-positive.
func (m *Medicine) GapHours(fallback float64) float64 {
	if m.TimeGapHours != nil && *m.TimeGapHours > 0 {
		return *m.TimeGapHours
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultGapHours
}

// FilledTimes returns the non-empty reminder times in slot order.
func (m *Medicine) FilledTimes() []string {
	return CompactTimes(m.ReminderTimes)
}

func (m *Medicine) Validate() error {
	if strings.TrimSpace(m.Name) == "" ||
		strings.TrimSpace(m.Dosage) == "" ||
		strings.TrimSpace(m.Frequency) == "" ||
		strings.TrimSpace(m.Timing) == "" {
		return ErrMissingField
	}
	return nil
}

// CompactTimes drops empty-string placeholders.
func CompactTimes(times []string) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
