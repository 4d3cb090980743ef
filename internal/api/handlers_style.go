// handlers_style.go - Render style and viewer configuration handlers
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/scene-viewer/backend/internal/config"
	"github.com/scene-viewer/backend/internal/models"
	"github.com/scene-viewer/backend/internal/parser"
	"github.com/scene-viewer/backend/internal/storage"
)

// StyleHandlerImpl implements the StyleHandler interface.
type StyleHandlerImpl struct {
	store  storage.Store
	viewer config.ViewerConfig

	mu           sync.RWMutex
	currentID    string
	currentStyle *models.RenderStyle
}

// NewStyleHandler creates a new style handler. The default style is
// active until a style file is uploaded.
func NewStyleHandler(store storage.Store, viewer config.ViewerConfig) StyleHandler {
	return &StyleHandlerImpl{
		store:        store,
		viewer:       viewer,
		currentStyle: parser.DefaultRenderStyle(),
	}
}

// GetCurrentStyle returns the active style and its source file ID.
func (h *StyleHandlerImpl) GetCurrentStyle() (string, *models.RenderStyle) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentID, h.currentStyle
}

// SetCurrentStyle replaces the active style.
func (h *StyleHandlerImpl) SetCurrentStyle(styleID string, style *models.RenderStyle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentID = styleID
	h.currentStyle = style
}

// HandleGetStyle returns the active render style.
func (h *StyleHandlerImpl) HandleGetStyle(c echo.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":    h.currentID,
		"style": h.currentStyle,
	})
}

// HandleUploadStyle accepts a YAML render style upload and activates it.
func (h *StyleHandlerImpl) HandleUploadStyle(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing form file", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewBadRequestError("unable to open uploaded file", err)
	}
	defer src.Close()

	style, err := parser.ParseRenderStyleFromReader(src)
	if err != nil {
		return NewBadRequestError("invalid render style file", err)
	}

	// Persist the raw file so the style survives a renderer reload.
	src2, err := fileHeader.Open()
	if err != nil {
		return NewInternalError("unable to reopen uploaded file", err)
	}
	defer src2.Close()

	info, err := h.store.Save(fileHeader.Filename, src2)
	if err != nil {
		return NewInternalError("failed to save style file", err)
	}

	h.SetCurrentStyle(info.ID, style)

	return c.JSON(http.StatusCreated, models.StyleInfo{
		ID:         info.ID,
		Name:       info.Name,
		UploadedAt: info.UploadedAt.Format(time.RFC3339),
		RuleCount:  len(style.LabelColors),
	})
}

// HandleGetViewerConfig returns canvas defaults for the renderer.
func (h *StyleHandlerImpl) HandleGetViewerConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"defaultCanvasWidth":  h.viewer.DefaultCanvasWidth,
		"defaultCanvasHeight": h.viewer.DefaultCanvasHeight,
	})
}
