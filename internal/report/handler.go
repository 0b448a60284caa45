package report

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tvusvet/tvusvet/internal/domain/exam"
	"github.com/tvusvet/tvusvet/internal/domain/patient"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/exams/:id/export", h.ExportReport)
}

// ExportReport streams the rendered .docx. Non-fatal assembly warnings (bad
// images, unusable letterhead) travel in the X-Report-Warnings header.
func (h *Handler) ExportReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Export(c.Request().Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrNotFound), errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, exam.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	if len(result.Warnings) > 0 {
		c.Response().Header().Set("X-Report-Warnings", strings.Join(result.Warnings, "; "))
	}
	return c.Blob(http.StatusOK, docxContentType, result.Data)
}
