package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusquery/internal/apperror"
)

type AuthHandler struct {
	service *UserService
}

func NewAuthHandler(service *UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	resp, err := h.service.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	resp, err := h.service.AuthenticateUser(c.Request().Context(), cred)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
