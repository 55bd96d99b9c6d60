package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/reminder"
)

type UpdateTimesRequest struct {
	ReminderTimes []string `json:"reminderTimes"`
}

type MedicineHandler struct {
	reminders *reminder.Service
}

func NewMedicineHandler(reminders *reminder.Service) *MedicineHandler {
	return &MedicineHandler{
		reminders: reminders,
	}
}

func (h *MedicineHandler) HandleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"medicines": newMedicineViews(h.reminders.Medicines()),
	})
}

func (h *MedicineHandler) HandleCreate(c *gin.Context) {
	var m domain.Medicine
	if err := c.ShouldBindJSON(&m); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	added, err := h.reminders.AddMedicine(c.Request.Context(), m)
	switch {
	case errors.Is(err, domain.ErrMissingField):
		respondError(c, http.StatusBadRequest, "validation_error", "Please fill in all required fields.")
		return
	case errors.Is(err, domain.ErrDuplicateMedicine):
		respondError(c, http.StatusConflict, "duplicate_medicine", err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusCreated, newMedicineView(added))
}

// HandleUpdateTimes stores the picked times for one medicine. Gaps are only
// checked when the reminders are saved.
func (h *MedicineHandler) HandleUpdateTimes(c *gin.Context) {
	var req UpdateTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	updated, err := h.reminders.SetReminderTimes(c.Param("id"), req.ReminderTimes)
	switch {
	case errors.Is(err, domain.ErrMedicineNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
		return
	case errors.Is(err, domain.ErrSlotCountMismatch), errors.Is(err, domain.ErrInvalidClockTime):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, newMedicineView(updated))
}
