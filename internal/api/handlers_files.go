// handlers_files.go - Scene file upload and management handlers
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/scene-viewer/backend/internal/storage"
)

// FileHandlerImpl implements the FileHandler interface.
type FileHandlerImpl struct {
	store storage.Store
}

// NewFileHandler creates a new file handler instance.
func NewFileHandler(store storage.Store) FileHandler {
	return &FileHandlerImpl{store: store}
}

// HandleUploadFile accepts a multipart scene description upload.
func (h *FileHandlerImpl) HandleUploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing form file", err)
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".vd") {
		return NewBadRequestError("only .vd scene description files are accepted", nil)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewBadRequestError("unable to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(fileHeader.Filename, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleGetRecentFiles returns recently uploaded scene files.
func (h *FileHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return NewBadRequestError("invalid limit", err)
		}
		limit = n
	}

	list, err := h.store.List(limit)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}

	return c.JSON(http.StatusOK, list)
}

// HandleGetFile returns metadata for a stored file.
func (h *FileHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile removes a stored file.
func (h *FileHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleRenameFile updates the display name of a stored file.
func (h *FileHandlerImpl) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return NewBadRequestError("name must not be empty", nil)
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}
