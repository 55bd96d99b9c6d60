package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/frequency"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// MedicineView is a session medicine together with the labels of its
// reminder slots.
type MedicineView struct {
	domain.Medicine
	SlotLabels []string `json:"slot_labels"`
}

func newMedicineView(m domain.Medicine) MedicineView {
	return MedicineView{
		Medicine:   m,
		SlotLabels: frequency.SlotLabels(m.Frequency, m.Timing),
	}
}

func newMedicineViews(medicines []domain.Medicine) []MedicineView {
	views := make([]MedicineView, 0, len(medicines))
	for _, m := range medicines {
		views = append(views, newMedicineView(m))
	}
	return views
}
