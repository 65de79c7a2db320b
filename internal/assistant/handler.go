package assistant

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusquery/internal/apperror"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	reply := h.service.GenerateReply(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, reply)
}
