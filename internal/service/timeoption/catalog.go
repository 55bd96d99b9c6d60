package timeoption

import (
	"fmt"
	"strings"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

const (
	StepMinutes = 15
	OptionCount = domain.MinutesPerDay / StepMinutes
)

// TimeOption is one selectable reminder time.
type TimeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Hour returns the 24-hour clock hour of the option.
func (o TimeOption) Hour() int {
	minutes, err := domain.ParseClockTime(o.Value)
	if err != nil {
		return -1
	}
	return minutes / 60
}

type hourRange struct {
	from int
	to   int
}

func (r hourRange) contains(hour int) bool {
	return hour >= r.from && hour < r.to
}

type labelClass struct {
	keywords []string
	hours    hourRange
}

// labelClasses scope the picker per slot label; the first class with a
// matching keyword applies.
var labelClasses = []labelClass{
	{keywords: []string{"breakfast", "morning"}, hours: hourRange{from: 0, to: 12}},
	{keywords: []string{"lunch", "afternoon"}, hours: hourRange{from: 12, to: 17}},
	{keywords: []string{"dinner", "evening", "night"}, hours: hourRange{from: 17, to: 24}},
	{keywords: []string{"bedtime"}, hours: hourRange{from: 20, to: 24}},
}

type Catalog struct {
	options []TimeOption
	byValue map[string]TimeOption
}

func NewCatalog() *Catalog {
	options := make([]TimeOption, 0, OptionCount)
	byValue := make(map[string]TimeOption, OptionCount)

	for i := 0; i < OptionCount; i++ {
		minutes := i * StepMinutes
		opt := TimeOption{
			Label: label12Hour(minutes),
			Value: domain.FormatClockTime(minutes),
		}
		options = append(options, opt)
		byValue[opt.Value] = opt
	}

	return &Catalog{
		options: options,
		byValue: byValue,
	}
}

func label12Hour(minutes int) string {
	hours := minutes / 60
	h12 := hours % 12
	if h12 == 0 {
		h12 = 12
	}

	ampm := "AM"
	if hours >= 12 {
		ampm = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", h12, minutes%60, ampm)
}

// All returns the full catalog in clock order.
func (c *Catalog) All() []TimeOption {
	out := make([]TimeOption, len(c.options))
	copy(out, c.options)
	return out
}

// Filtered returns the options suited to a slot label. Labels that match no
// class get the full catalog. The scoping is advisory; any canonical value
// remains acceptable.
func (c *Catalog) Filtered(label string) []TimeOption {
	lower := strings.ToLower(label)

	for _, class := range labelClasses {
		if !containsAny(lower, class.keywords) {
			continue
		}

		out := make([]TimeOption, 0, len(c.options))
		for _, opt := range c.options {
			if class.hours.contains(opt.Hour()) {
				out = append(out, opt)
			}
		}
		return out
	}

	return c.All()
}

// Label renders a canonical "HH:MM" value in 12-hour form, or "" when the
// value is not in the catalog.
func (c *Catalog) Label(value string) string {
	if value == "" {
		return ""
	}
	return c.byValue[value].Label
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
