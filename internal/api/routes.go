// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/scene-viewer/backend/internal/config"
	"github.com/scene-viewer/backend/internal/session"
	"github.com/scene-viewer/backend/internal/storage"
)

// Dependencies holds all handler dependencies.
type Dependencies struct {
	Store      storage.Store
	SessionMgr *session.Manager
	Viewer     config.ViewerConfig
	Version    string
}

// Handlers holds all handler instances.
type Handlers struct {
	Health HealthHandler
	Files  FileHandler
	Scene  SceneHandler
	Style  StyleHandler
}

// NewHandlers creates all handler instances.
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version),
		Files:  NewFileHandler(deps.Store),
		Scene:  NewSceneHandler(deps.Store, deps.SessionMgr),
		Style:  NewStyleHandler(deps.Store, deps.Viewer),
	}
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Scene file management
	fileGroup := apiGroup.Group("/files")
	fileGroup.POST("/upload", handlers.Files.HandleUploadFile)
	fileGroup.GET("/recent", handlers.Files.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Files.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Files.HandleDeleteFile)
	fileGroup.PUT("/:id", handlers.Files.HandleRenameFile)

	// Parse sessions and scene queries
	sceneGroup := apiGroup.Group("/scenes")
	sceneGroup.POST("", handlers.Scene.HandleStartParse)
	sceneGroup.GET("/:sessionId/status", handlers.Scene.HandleSessionStatus)
	sceneGroup.POST("/:sessionId/keepalive", handlers.Scene.HandleSessionKeepAlive)
	sceneGroup.DELETE("/:sessionId", handlers.Scene.HandleDeleteSession)
	sceneGroup.GET("/:sessionId/scene", handlers.Scene.HandleGetScene)
	sceneGroup.GET("/:sessionId/scene/msgpack", handlers.Scene.HandleGetSceneMsgpack)
	sceneGroup.GET("/:sessionId/diagnostics", handlers.Scene.HandleGetDiagnostics)
	sceneGroup.GET("/:sessionId/viewport", handlers.Scene.HandleQueryViewport)
	sceneGroup.GET("/:sessionId/points/:label", handlers.Scene.HandleGetPointByLabel)
	sceneGroup.GET("/:sessionId/bounds", handlers.Scene.HandleGetBounds)

	// Render style and viewer configuration
	styleGroup := apiGroup.Group("/style")
	styleGroup.GET("", handlers.Style.HandleGetStyle)
	styleGroup.POST("/upload", handlers.Style.HandleUploadStyle)
	apiGroup.GET("/viewer/config", handlers.Style.HandleGetViewerConfig)
}

// SetupMiddleware configures the custom error handler.
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
