// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/scene-viewer/backend/internal/models"
)

// FileHandler handles scene file upload operations.
type FileHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
}

// SceneHandler handles scene parsing session operations.
type SceneHandler interface {
	HandleStartParse(c echo.Context) error
	HandleSessionStatus(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleGetScene(c echo.Context) error
	HandleGetSceneMsgpack(c echo.Context) error
	HandleGetDiagnostics(c echo.Context) error
	HandleQueryViewport(c echo.Context) error
	HandleGetPointByLabel(c echo.Context) error
	HandleGetBounds(c echo.Context) error
}

// StyleHandler handles render style and viewer configuration.
type StyleHandler interface {
	HandleGetStyle(c echo.Context) error
	HandleUploadStyle(c echo.Context) error
	HandleGetViewerConfig(c echo.Context) error
	GetCurrentStyle() (string, *models.RenderStyle)
	SetCurrentStyle(styleID string, style *models.RenderStyle)
}

// HealthHandler handles health check operations.
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
