package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanResponseText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object",
			input:    `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "fenced with prose",
			input:    "Here is the result:\n```json\n{\"a\":1}\n```\nThanks",
			expected: `{"a":1}`,
		},
		{
			name:     "no braces",
			input:    "```json\n[]\n```",
			expected: "[]",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanResponseText(tt.input))
		})
	}
}

func TestParsePrescription_Valid(t *testing.T) {
	raw := "```json\n" + `{
  "is_document_valid": true,
  "document_type": "PRESCRIPTION",
  "disease": "Fever",
  "medicines": [
    {"name": "Paracetamol", "dosage": "500mg", "frequency": "1-0-1", "timing": "after food", "reason": "fever", "time_gap_hours": 6},
    {"name": "Cetirizine", "dosage": "10mg", "frequency": "OD", "timing": "night", "time_gap_hours": null}
  ]
}` + "\n```"

	p, err := ParsePrescription(raw)
	require.NoError(t, err)

	assert.Equal(t, "Fever", p.Disease)
	require.Len(t, p.Medicines, 2)
	assert.Equal(t, "Paracetamol", p.Medicines[0].Name)
	require.NotNil(t, p.Medicines[0].TimeGapHours)
	assert.Equal(t, 6.0, *p.Medicines[0].TimeGapHours)
	assert.Nil(t, p.Medicines[1].TimeGapHours)
}

func TestParsePrescription_RepairsBrokenJSON(t *testing.T) {
	raw := `{"is_document_valid": true, "document_type": "PRESCRIPTION", "medicines": [{"name": "Ibuprofen", "dosage": "400mg", "frequency": "tds", "timing": "after food",},]}`

	p, err := ParsePrescription(raw)
	require.NoError(t, err)
	require.Len(t, p.Medicines, 1)
	assert.Equal(t, "Ibuprofen", p.Medicines[0].Name)
}

func TestParsePrescription_InvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "flagged invalid", raw: `{"is_document_valid": false, "document_type": "PRESCRIPTION"}`},
		{name: "other document", raw: `{"is_document_valid": true, "document_type": "OTHER"}`},
		{name: "missing fields", raw: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePrescription(tt.raw)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
			require.NotNil(t, p)
			assert.NotNil(t, p.Medicines)
		})
	}
}

func TestParsePrescription_Empty(t *testing.T) {
	_, err := ParsePrescription("   ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
