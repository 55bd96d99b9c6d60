package timeoption

import (
	"testing"
)

func TestCatalog_All(t *testing.T) {
	c := NewCatalog()
	all := c.All()

	if len(all) != 96 {
		t.Fatalf("got %d options, want 96", len(all))
	}

	tests := []struct {
		index     int
		wantLabel string
		wantValue string
	}{
		{index: 0, wantLabel: "12:00 AM", wantValue: "00:00"},
		{index: 1, wantLabel: "12:15 AM", wantValue: "00:15"},
		{index: 4, wantLabel: "1:00 AM", wantValue: "01:00"},
		{index: 47, wantLabel: "11:45 AM", wantValue: "11:45"},
		{index: 48, wantLabel: "12:00 PM", wantValue: "12:00"},
		{index: 52, wantLabel: "1:00 PM", wantValue: "13:00"},
		{index: 95, wantLabel: "11:45 PM", wantValue: "23:45"},
	}

	for _, tt := range tests {
		opt := all[tt.index]
		if opt.Label != tt.wantLabel || opt.Value != tt.wantValue {
			t.Errorf("option[%d] = %+v, want {%s %s}", tt.index, opt, tt.wantLabel, tt.wantValue)
		}
	}

	for i := 1; i < len(all); i++ {
		if all[i-1].Value >= all[i].Value {
			t.Fatalf("catalog not ordered at %d: %s >= %s", i, all[i-1].Value, all[i].Value)
		}
	}
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := NewCatalog()
	all := c.All()
	all[0].Value = "mutated"

	if c.All()[0].Value != "00:00" {
		t.Error("All must not expose internal storage")
	}
}

func TestCatalog_Filtered(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name      string
		label     string
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{name: "breakfast", label: "After Breakfast", wantCount: 48, wantFirst: "00:00", wantLast: "11:45"},
		{name: "morning", label: "Morning dose", wantCount: 48, wantFirst: "00:00", wantLast: "11:45"},
		{name: "lunch", label: "Before Lunch", wantCount: 20, wantFirst: "12:00", wantLast: "16:45"},
		{name: "afternoon", label: "Afternoon", wantCount: 20, wantFirst: "12:00", wantLast: "16:45"},
		{name: "dinner", label: "After Dinner", wantCount: 28, wantFirst: "17:00", wantLast: "23:45"},
		{name: "evening", label: "Evening", wantCount: 28, wantFirst: "17:00", wantLast: "23:45"},
		{name: "night", label: "Night", wantCount: 28, wantFirst: "17:00", wantLast: "23:45"},
		{name: "bedtime", label: "At Bedtime", wantCount: 16, wantFirst: "20:00", wantLast: "23:45"},
		{name: "generic", label: "Daily Dose (as needed)", wantCount: 96, wantFirst: "00:00", wantLast: "23:45"},
		{name: "empty", label: "", wantCount: 96, wantFirst: "00:00", wantLast: "23:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Filtered(tt.label)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d options, want %d", len(got), tt.wantCount)
			}
			if got[0].Value != tt.wantFirst {
				t.Errorf("first: got %s, want %s", got[0].Value, tt.wantFirst)
			}
			if got[len(got)-1].Value != tt.wantLast {
				t.Errorf("last: got %s, want %s", got[len(got)-1].Value, tt.wantLast)
			}
		})
	}
}

func TestCatalog_Label(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		value string
		want  string
	}{
		{value: "08:00", want: "8:00 AM"},
		{value: "20:30", want: "8:30 PM"},
		{value: "00:45", want: "12:45 AM"},
		{value: "08:07", want: ""},
		{value: "", want: ""},
		{value: "bogus", want: ""},
	}

	for _, tt := range tests {
		if got := c.Label(tt.value); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
