package prescription

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
	read := api.Group("/prescriptions", auth.RequireRole(auth.RoleDoctor, auth.RolePharmacy))
	read.GET("", h.ListPrescriptions)
	read.GET("/:id", h.GetPrescription)

	reconcile := api.Group("/prescriptions", auth.RequireRole(auth.RolePharmacy))
	reconcile.GET("/:id/reconcile", h.Reconcile)
}

// callerPharmacy resolves the pharmacy the reconciliation runs against: the
// authenticated actor, or an explicit pharmacy_id when the caller is an admin.
func callerPharmacy(c echo.Context) (uuid.UUID, error) {
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

func (h *Handler) Reconcile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid prescription id")
	}
	pid, err := callerPharmacy(c)
	if err != nil {
		return err
	}

	report, err := h.svc.Reconcile(c.Request().Context(), id, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

func (h *Handler) GetPrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid prescription id")
	}

	p, err := h.svc.GetPrescription(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": p})
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	pg := pagination.FromContext(c)

	list, total, err := h.svc.ListPrescriptions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, pg.Limit, pg.Offset))
}
