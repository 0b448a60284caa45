package backup

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/backup", h.ExportBackup)
	api.POST("/backup", h.ImportBackup)
}

// ExportBackup downloads the full dataset. With ?passphrase= the file is
// encrypted; otherwise it is plaintext JSON.
func (h *Handler) ExportBackup(c echo.Context) error {
	ctx := c.Request().Context()
	if passphrase := c.QueryParam("passphrase"); passphrase != "" {
		data, err := h.svc.ExportEncrypted(ctx, passphrase)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="backup.enc.json"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	}
	data, err := h.svc.ExportJSON(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="backup.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ImportBackup restores from an uploaded file. The body is sniffed: an
// encrypted envelope requires ?passphrase=.
func (h *Handler) ImportBackup(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	var env envelope
	if json.Unmarshal(body, &env) == nil && env.V == 1 && env.Data != "" {
		passphrase := c.QueryParam("passphrase")
		if passphrase == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "encrypted backup requires a passphrase")
		}
		if err := h.svc.ImportEncrypted(ctx, body, passphrase); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.svc.ImportJSON(ctx, body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
