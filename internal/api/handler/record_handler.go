package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicatlas/records-system/internal/api/response"
	"github.com/civicatlas/records-system/internal/core/domain"
	"github.com/civicatlas/records-system/internal/core/ports"
)

// RecordHandler exposes the thin collaborator surface around records: the
// public listing/map reads on the guest bypass and the two role-gated
// operations. Everything heavier than this lives outside the auth core.
type RecordHandler struct {
	recordService ports.RecordService
}

func NewRecordHandler(recordService ports.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

type createRecordRequest struct {
	Title    string             `json:"title" validate:"required,max=200"`
	Category string             `json:"category" validate:"required,max=64"`
	Location domain.Coordinates `json:"location"`
}

// ListPublic serves the public records listing. No authentication required.
//
// @Summary      List published records
// @Tags         records
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  response.Envelope
// @Router       /records/public [get]
func (h *RecordHandler) ListPublic(c echo.Context) error {
	records, err := h.recordService.ListPublic(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(map[string]any{"records": records}))
}

// MapPoints serves the public map projection. No authentication required.
//
// @Summary      Map points for published records
// @Tags         records
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /records/map [get]
func (h *RecordHandler) MapPoints(c echo.Context) error {
	points, err := h.recordService.MapPoints(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(map[string]any{"points": points}))
}

// Create stores a new record. Staff only.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.recordService.Create(c.Request().Context(), identity, req.Title, req.Category, req.Location)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, response.OK(map[string]any{"record": record}))
}

// Stats serves per-category record counts. Admin only.
//
// @Summary      Record statistics
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /records/stats [get]
func (h *RecordHandler) Stats(c echo.Context) error {
	counts, err := h.recordService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response.OK(map[string]any{"categories": counts}))
}
