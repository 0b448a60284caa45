package exam

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tvusvet/tvusvet/internal/domain/patient"
	"github.com/tvusvet/tvusvet/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/exams", h.ListExams)
	api.POST("/exams", h.CreateExam)
	api.GET("/exams/:id", h.GetExam)
	api.GET("/exams/:id/workspace", h.LoadWorkspace)
	api.PUT("/exams/:id", h.SaveExam)
	api.DELETE("/exams/:id", h.DeleteExam)

	api.POST("/exams/:id/images", h.AddImages)
	api.DELETE("/exams/:id/images/:imageId", h.RemoveImage)

	api.POST("/exams/:id/sections/:section/measurements", h.AddMeasurement)
	api.DELETE("/exams/:id/sections/:section/measurements/:key", h.RemoveMeasurement)
	api.POST("/exams/:id/sections/:section/text", h.InsertText)

	api.GET("/catalog/sections", h.CatalogSections)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateExam(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, x)
}

func (h *Handler) GetExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	x, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, x)
}

func (h *Handler) ListExams(c echo.Context) error {
	var patientID *uuid.UUID
	if raw := c.QueryParam("patient_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patientID = &pid
	}
	items, err := h.svc.List(c.Request().Context(), patientID)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Exam{}
	}
	params := pagination.FromContext(c)
	start, end := params.Bounds(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), params.Limit, params.Offset))
}

func (h *Handler) LoadWorkspace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ws, err := h.svc.Load(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *Handler) SaveExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x, err := h.svc.Save(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, x)
}

func (h *Handler) DeleteExam(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddImages(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var uploads []ImageUpload
	if err := c.Bind(&uploads); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x, warnings, err := h.svc.AddImages(c.Request().Context(), id, uploads)
	if err != nil {
		return httpError(err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"exam": x, "warnings": warnings})
}

func (h *Handler) RemoveImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}
	x, err := h.svc.RemoveImage(c.Request().Context(), id, imageID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, x)
}

type addMeasurementRequest struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (h *Handler) AddMeasurement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req addMeasurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	key, x, err := h.svc.AddMeasurement(c.Request().Context(), id, c.Param("section"), req.Label,
		Measurement{Value: req.Value, Unit: req.Unit})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"key": key, "exam": x})
}

func (h *Handler) RemoveMeasurement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	x, err := h.svc.RemoveMeasurement(c.Request().Context(), id, c.Param("section"), c.Param("key"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, x)
}

type insertTextRequest struct {
	Text   string `json:"text"`
	Cursor *int   `json:"cursor,omitempty"`
}

func (h *Handler) InsertText(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req insertTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	x, err := h.svc.InsertText(c.Request().Context(), id, c.Param("section"), req.Text, req.Cursor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, x)
}

// CatalogSections exposes SectionsFor to the UI so ordering logic stays
// server-side.
func (h *Handler) CatalogSections(c echo.Context) error {
	examType := c.QueryParam("exam_type")
	if examType == "" {
		examType = TypeUltrasound
	}
	if !validTypes[examType] {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exam_type")
	}
	sex := c.QueryParam("sex")
	neutered := c.QueryParam("neutered") == "true"
	return c.JSON(http.StatusOK, SectionsFor(examType, sex, neutered))
}
