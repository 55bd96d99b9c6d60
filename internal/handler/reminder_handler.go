package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/reminder"
)

type GapViolationResponse struct {
	Error       string  `json:"error"`
	Message     string  `json:"message"`
	Medicine    string  `json:"medicine"`
	MinGapHours float64 `json:"min_gap_hours"`
	First       string  `json:"first"`
	Second      string  `json:"second"`
	WrapAround  bool    `json:"wrap_around"`
}

type ReminderHandler struct {
	reminders *reminder.Service
}

func NewReminderHandler(reminders *reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
	}
}

func (h *ReminderHandler) HandleSave(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.reminders.SaveReminders(ctx)

	var violation *domain.GapViolation
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"status":  "saved",
			"message": "Reminders saved successfully!",
		})
	case errors.As(err, &violation):
		c.JSON(http.StatusUnprocessableEntity, GapViolationResponse{
			Error:       "gap_violation",
			Message:     violation.Error(),
			Medicine:    violation.MedicineName,
			MinGapHours: violation.MinGapHours,
			First:       violation.First,
			Second:      violation.Second,
			WrapAround:  violation.WrapAround,
		})
	case errors.Is(err, domain.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, "permission_denied",
			"Notification permission was not granted. Reminders cannot be set.")
	default:
		slog.ErrorContext(ctx, "failed to save reminders",
			slog.String("event", "reminder.save.error"),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
	}
}
