package rating

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibook/medibook/internal/platform/apperr"
	"github.com/medibook/medibook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors/top", h.TopDoctors)
	api.GET("/doctors/:id/reviews", h.ListReviews)

	write := api.Group("/doctors", auth.RequireRole(auth.RolePatient))
	write.POST("/:id/reviews", h.SubmitRating)
}

func (h *Handler) SubmitRating(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid doctor id")
	}

	var body struct {
		Rating *int   `json:"rating"`
		Review string `json:"review"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Validation("invalid request body")
	}
	if body.Rating == nil {
		return apperr.Validation("rating is required")
	}

	patientID := auth.ActorIDFromContext(c.Request().Context())

	d, err := h.svc.SubmitRating(c.Request().Context(), doctorID, patientID, *body.Rating, body.Review)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"rating":        d.Rating,
			"total_ratings": d.TotalRatings,
		},
	})
}

func (h *Handler) ListReviews(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid doctor id")
	}

	reviews, err := h.svc.ListReviews(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": reviews})
}

func (h *Handler) TopDoctors(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	docs, err := h.svc.TopDoctors(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": docs})
}
