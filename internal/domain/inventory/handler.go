package inventory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibook/medibook/internal/platform/apperr"
	"github.com/medibook/medibook/internal/platform/auth"
	"github.com/medibook/medibook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/inventory", auth.RequireRole(auth.RolePharmacy))
	g.POST("/medicines", h.AddMedicine)
	g.GET("/medicines", h.ListMedicines)
	g.GET("/medicines/:id", h.GetMedicine)
	g.PATCH("/medicines/:id/stock", h.AdjustStock)
	g.DELETE("/medicines/:id", h.RemoveMedicine)
	g.GET("/dashboard", h.Dashboard)
}

// pharmacyID resolves the pharmacy whose stock the call operates on. It is
// the authenticated actor; an admin may act on behalf of a pharmacy via the
// pharmacy_id query parameter.
func pharmacyID(c echo.Context) (uuid.UUID, error) {
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == auth.RoleAdmin {
		if p := c.QueryParam("pharmacy_id"); p != "" {
			id, err := uuid.Parse(p)
			if err != nil {
				return uuid.Nil, apperr.Validation("invalid pharmacy_id")
			}
			return id, nil
		}
	}
	id, err := uuid.Parse(auth.ActorIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, apperr.Validation("caller has no pharmacy identity")
	}
	return id, nil
}

func (h *Handler) AddMedicine(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}

	var in AddMedicineInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}

	m, err := h.svc.AddMedicine(c.Request().Context(), pid, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": m})
}

func (h *Handler) GetMedicine(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}

	m, err := h.svc.GetMedicine(c.Request().Context(), id, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": m})
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	meds, total, err := h.svc.ListMedicines(c.Request().Context(), pid, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(meds, total, pg.Limit, pg.Offset))
}

func (h *Handler) AdjustStock(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}

	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Validation("invalid request body")
	}
	if body.Quantity == nil {
		return apperr.Validation("quantity is required")
	}

	m, err := h.svc.AdjustStock(c.Request().Context(), id, pid, *body.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": m})
}

func (h *Handler) RemoveMedicine(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid medicine id")
	}

	if err := h.svc.RemoveMedicine(c.Request().Context(), id, pid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "medicine removed"})
}

func (h *Handler) Dashboard(c echo.Context) error {
	pid, err := pharmacyID(c)
	if err != nil {
		return err
	}

	report, err := h.svc.Dashboard(c.Request().Context(), pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}
