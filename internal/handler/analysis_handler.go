package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/ingest"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/reminder"
)

// AnalysisRequest carries either the medicines already extracted by the
// front end or the raw model reply to be parsed here.
type AnalysisRequest struct {
	Medicines []domain.Medicine `json:"medicines"`
	RawText   string            `json:"raw_text"`
}

type AnalysisResponse struct {
	Disease      string         `json:"disease,omitempty"`
	DocumentType string         `json:"document_type,omitempty"`
	Medicines    []MedicineView `json:"medicines"`
}

type AnalysisHandler struct {
	reminders *reminder.Service
}

func NewAnalysisHandler(reminders *reminder.Service) *AnalysisHandler {
	return &AnalysisHandler{
		reminders: reminders,
	}
}

func (h *AnalysisHandler) HandleIngest(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	resp := AnalysisResponse{}
	medicines := req.Medicines

	if strings.TrimSpace(req.RawText) != "" {
		prescription, err := ingest.ParsePrescription(req.RawText)
		switch {
		case errors.Is(err, ingest.ErrInvalidDocument):
			slog.InfoContext(ctx, "analysed document is not a prescription",
				slog.String("event", "analysis.ingest.invalid_document"),
				slog.String("document_type", prescription.DocumentType),
			)
			respondError(c, http.StatusUnprocessableEntity, "invalid_document",
				"The uploaded document does not appear to be a valid prescription.")
			return
		case err != nil:
			slog.WarnContext(ctx, "failed to parse analysis response",
				slog.String("event", "analysis.ingest.parse_fail"),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusBadRequest, "parse_error", err.Error())
			return
		}

		resp.Disease = prescription.Disease
		resp.DocumentType = prescription.DocumentType
		medicines = prescription.Medicines
	}

	ingested, err := h.reminders.Ingest(ctx, medicines)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	resp.Medicines = newMedicineViews(ingested)
	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) HandleClear(c *gin.Context) {
	h.reminders.Clear()

	slog.InfoContext(c.Request.Context(), "analysis cleared",
		slog.String("event", "analysis.clear"),
	)

	c.Status(http.StatusNoContent)
}
