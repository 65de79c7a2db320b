package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusquery/internal/apperror"
	"campusquery/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actor(c echo.Context) (*auth.JWTClaims, primitive.ObjectID, error) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || claims == nil {
		return nil, primitive.NilObjectID, apperror.Unauthenticated("Missing token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, primitive.NilObjectID, apperror.Unauthenticated("Invalid token")
	}
	return claims, id, nil
}

func (h *Handler) List(c echo.Context) error {
	filter := PublicFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("searchText"),
		SellerID: c.QueryParam("sellerId"),
	}
	views, err := h.service.ListListings(c.Request().Context(), filter)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Get(c echo.Context) error {
	view, err := h.service.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Create(c echo.Context) error {
	_, actorID, err := actor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	view, err := h.service.CreateListing(c.Request().Context(), actorID, req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *Handler) MarkSold(c echo.Context) error {
	_, actorID, err := actor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}

	view, err := h.service.MarkSold(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Delete(c echo.Context) error {
	claims, actorID, err := actor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}

	if err := h.service.DeleteListing(c.Request().Context(), actorID, auth.Role(claims.Role), c.Param("id")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Enquire(c echo.Context) error {
	_, actorID, err := actor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}

	var req EnquiryRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("Invalid request body"))
	}

	if err := h.service.Enquire(c.Request().Context(), actorID, c.Param("id"), req); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Enquiry sent to the seller"})
}
