// Package ingest turns the document-understanding model's reply into
// medicines the reminder service can take.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
)

const (
	DocumentTypePrescription = "PRESCRIPTION"
	DocumentTypeOther        = "OTHER"
)

var (
	ErrEmptyResponse   = errors.New("analysis response is empty")
	ErrUnparseable     = errors.New("analysis response is not valid JSON")
	ErrInvalidDocument = errors.New("document is not a valid prescription")
)

type Prescription struct {
	IsDocumentValid bool              `json:"is_document_valid"`
	DocumentType    string            `json:"document_type"`
	Disease         string            `json:"disease"`
	Medicines       []domain.Medicine `json:"medicines"`
}

// CleanResponseText cuts the JSON object out of a model reply that may wrap
// it in prose or markdown fences.
func CleanResponseText(text string) string {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		return text[first : last+1]
	}

	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParsePrescription decodes a model reply. Slightly broken JSON (trailing
// commas, single quotes, truncated arrays) is repaired before decoding.
// A reply that decodes but is not a prescription returns the decoded value
// together with ErrInvalidDocument.
func ParsePrescription(raw string) (*Prescription, error) {
	cleaned := CleanResponseText(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var p Prescription
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		p = Prescription{}
		if err := json.Unmarshal([]byte(repaired), &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
	}

	if p.DocumentType == "" {
		p.DocumentType = DocumentTypeOther
	}
	if p.Medicines == nil {
		p.Medicines = []domain.Medicine{}
	}

	if !p.IsDocumentValid || p.DocumentType != DocumentTypePrescription {
		return &p, ErrInvalidDocument
	}

	return &p, nil
}
