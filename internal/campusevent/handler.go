package campusevent

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

func (h *Handler) List(c echo.Context) error {
	events, err := h.service.List(c.Request().Context())
	if err != nil {
		return apperror.Respond(c, err)
	}
	if events == nil {
		events = []*Event{}
	}
	return c.JSON(http.StatusOK, events)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	event, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}
