// Package frequency turns free-text dosage frequency and timing descriptions
// into a daily dose count and labeled slots.
//
// Parsing never fails. Text that matches no rule resolves to the named
// defaults below so the reminder picker is always available.
package frequency

import (
	"fmt"
	"strings"
)

// DefaultDoseCount is used when no rule recognizes the frequency text.
const DefaultDoseCount = 1

type countRule struct {
	count    int
	patterns []string
}

// countRules are evaluated in order; the first rule with a matching
// substring wins. Higher counts come first so "1-1-1-1" is not read as
// "1-1-1".
var countRules = []countRule{
	{count: 4, patterns: []string{"four", "1-1-1-1", "qds"}},
	{count: 3, patterns: []string{"thrice", "three", "1-1-1", "tds"}},
	{count: 2, patterns: []string{"twice", "1-0-1", "0-1-1", "1-1-0", "bd"}},
	{count: 1, patterns: []string{"once", "1-0-0", "0-1-0", "0-0-1", "od"}},
}

// Malayalam times of day. Each distinct word present counts as one dose.
var malayalamDayParts = []string{
	"രാവിലെ",     // morning
	"ഉച്ച",       // noon
	"വൈകുന്നേരം", // evening
	"രാത്രി",     // night
}

// DoseCount returns the number of daily doses implied by frequency. The
// result is always at least 1.
func DoseCount(frequency string) int {
	lower := strings.ToLower(frequency)

	for _, rule := range countRules {
		if containsAny(lower, rule.patterns...) {
			return rule.count
		}
	}

	if n := countDayParts(lower); n > 0 {
		return n
	}

	return DefaultDoseCount
}

func countDayParts(lower string) int {
	n := 0
	for _, part := range malayalamDayParts {
		if strings.Contains(lower, part) {
			n++
		}
	}
	return n
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Qualifier is the meal relation detected in the timing text.
type Qualifier int

const (
	QualifierNone Qualifier = iota
	QualifierAfterFood
	QualifierBeforeFood
)

// Timing is the parsed form of a timing description.
type Timing struct {
	Raw       string
	Qualifier Qualifier
	Bedtime   bool
	lower     string
}

func ParseTiming(timing string) Timing {
	lower := strings.ToLower(timing)

	t := Timing{
		Raw:     timing,
		Bedtime: containsAny(lower, "bedtime", "night"),
		lower:   lower,
	}

	switch {
	case strings.Contains(lower, "after"):
		t.Qualifier = QualifierAfterFood
	case strings.Contains(lower, "before"):
		t.Qualifier = QualifierBeforeFood
	}

	return t
}

func (t Timing) mentions(word string) bool {
	return strings.Contains(t.lower, word)
}

type meal string

const (
	mealBreakfast meal = "Breakfast"
	mealLunch     meal = "Lunch"
	mealDinner    meal = "Dinner"
	mealBedtime   meal = "Bedtime"
)

const bedtimeLabel = "At Bedtime"

func (t Timing) mealLabel(m meal) string {
	if m == mealBedtime {
		return bedtimeLabel
	}

	switch t.Qualifier {
	case QualifierAfterFood:
		return "After " + string(m)
	case QualifierBeforeFood:
		return "Before " + string(m)
	default:
		return string(m) + " Dose"
	}
}

// dailyDoseLabel is the once-daily label when the timing names no meal.
func dailyDoseLabel(timing string) string {
	return fmt.Sprintf("Daily Dose (%s)", timing)
}

func genericDoseLabel(n int, timing string) string {
	return fmt.Sprintf("Dose %d (%s)", n, timing)
}

// SlotLabels returns one descriptive label per daily dose, in slot order.
// len(SlotLabels(f, t)) == DoseCount(f) for every input.
func SlotLabels(frequency, timing string) []string {
	count := DoseCount(frequency)
	t := ParseTiming(timing)
	lowerFreq := strings.ToLower(frequency)

	switch count {
	case 1:
		return []string{onceDailyLabel(t)}
	case 2:
		return twiceDailyLabels(t, lowerFreq)
	case 3:
		return []string{t.mealLabel(mealBreakfast), t.mealLabel(mealLunch), t.mealLabel(mealDinner)}
	case 4:
		return []string{t.mealLabel(mealBreakfast), t.mealLabel(mealLunch), t.mealLabel(mealDinner), t.mealLabel(mealBedtime)}
	}

	labels := make([]string, count)
	for i := range labels {
		labels[i] = genericDoseLabel(i+1, timing)
	}
	return labels
}

func onceDailyLabel(t Timing) string {
	switch {
	case t.Bedtime:
		return bedtimeLabel
	case t.mentions("breakfast"):
		return t.mealLabel(mealBreakfast)
	case t.mentions("lunch"):
		return t.mealLabel(mealLunch)
	case t.mentions("dinner"):
		return t.mealLabel(mealDinner)
	default:
		return dailyDoseLabel(t.Raw)
	}
}

// twiceDailyLabels reads the morning-noon-night code; breakfast and dinner
// is the default pairing.
func twiceDailyLabels(t Timing, lowerFreq string) []string {
	switch {
	case strings.Contains(lowerFreq, "1-0-1"):
		return []string{t.mealLabel(mealBreakfast), t.mealLabel(mealDinner)}
	case strings.Contains(lowerFreq, "1-1-0"):
		return []string{t.mealLabel(mealBreakfast), t.mealLabel(mealLunch)}
	case strings.Contains(lowerFreq, "0-1-1"):
		return []string{t.mealLabel(mealLunch), t.mealLabel(mealDinner)}
	default:
		return []string{t.mealLabel(mealBreakfast), t.mealLabel(mealDinner)}
	}
}

// Schedule is the slot layout derived for one medicine.
type Schedule struct {
	DoseCount int      `json:"dose_count"`
	Labels    []string `json:"labels"`
}

func Derive(frequency, timing string) Schedule {
	labels := SlotLabels(frequency, timing)
	return Schedule{
		DoseCount: len(labels),
		Labels:    labels,
	}
}
