package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/domain"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/permission"
)

type PermissionBody struct {
	Permission domain.Permission `json:"permission"`
}

type PermissionHandler struct {
	gate *permission.Gate
}

func NewPermissionHandler(gate *permission.Gate) *PermissionHandler {
	return &PermissionHandler{
		gate: gate,
	}
}

func (h *PermissionHandler) HandleGet(c *gin.Context) {
	p, err := h.gate.Current(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, PermissionBody{Permission: p})
}

// HandleResolve records the browser's answer to a permission prompt.
func (h *PermissionHandler) HandleResolve(c *gin.Context) {
	var body PermissionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	err := h.gate.Resolve(c.Request.Context(), body.Permission)
	switch {
	case errors.Is(err, domain.ErrInvalidPermission):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, body)
}
