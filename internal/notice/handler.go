package notice

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
	notices, err := h.service.List(c.Request().Context(), c.QueryParam("category"), c.QueryParam("searchText"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	if notices == nil {
		notices = []*Notice{}
	}
	return c.JSON(http.StatusOK, notices)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateNoticeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	notice, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, notice)
}
