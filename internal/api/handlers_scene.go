// handlers_scene.go - Scene parsing session handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/scene-viewer/backend/internal/session"
	"github.com/scene-viewer/backend/internal/storage"
	"github.com/vmihailenco/msgpack/v5"
)

// SceneHandlerImpl implements the SceneHandler interface.
type SceneHandlerImpl struct {
	store      storage.Store
	sessionMgr *session.Manager
}

// NewSceneHandler creates a new scene handler instance.
func NewSceneHandler(store storage.Store, sessionMgr *session.Manager) SceneHandler {
	return &SceneHandlerImpl{
		store:      store,
		sessionMgr: sessionMgr,
	}
}

// HandleStartParse starts a parsing session for an uploaded scene file.
func (h *SceneHandlerImpl) HandleStartParse(c echo.Context) error {
	var req struct {
		FileID string `json:"fileId"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.FileID == "" {
		return NewBadRequestError("fileId is required", nil)
	}

	path, err := h.store.GetFilePath(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	sess, err := h.sessionMgr.StartSession(req.FileID, path)
	if err != nil {
		return NewInternalError("failed to start parse session", err)
	}

	return c.JSON(http.StatusAccepted, sess)
}

// HandleSessionStatus returns the current state of a parse session.
func (h *SceneHandlerImpl) HandleSessionStatus(c echo.Context) error {
	id := c.Param("sessionId")
	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	h.sessionMgr.TouchSession(id)
	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive refreshes a session's keep-alive timestamp.
func (h *SceneHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessionMgr.TouchSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDeleteSession releases a session and its scene store.
func (h *SceneHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessionMgr.DeleteSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetScene returns the resolved scene as JSON.
func (h *SceneHandlerImpl) HandleGetScene(c echo.Context) error {
	id := c.Param("sessionId")
	scene, ok := h.sessionMgr.GetScene(id)
	if !ok {
		return NewNotFoundError("scene", id)
	}
	h.sessionMgr.TouchSession(id)
	return c.JSON(http.StatusOK, scene)
}

// HandleGetSceneMsgpack returns the resolved scene as a msgpack blob
// for the canvas renderer.
func (h *SceneHandlerImpl) HandleGetSceneMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	scene, ok := h.sessionMgr.GetScene(id)
	if !ok {
		return NewNotFoundError("scene", id)
	}
	h.sessionMgr.TouchSession(id)

	data, err := msgpack.Marshal(map[string]interface{}{
		"points": scene.Points,
		"lines":  scene.Lines,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetDiagnostics returns the diagnostic trail of a parse session.
func (h *SceneHandlerImpl) HandleGetDiagnostics(c echo.Context) error {
	id := c.Param("sessionId")
	diags, ok := h.sessionMgr.GetDiagnostics(id)
	if !ok {
		return NewNotFoundError("scene", id)
	}
	return c.JSON(http.StatusOK, diags)
}

// HandleQueryViewport returns the primitives intersecting a viewport box.
func (h *SceneHandlerImpl) HandleQueryViewport(c echo.Context) error {
	id := c.Param("sessionId")

	coords := make(map[string]int, 4)
	for _, name := range []string{"x0", "y0", "x1", "y1"} {
		raw := c.QueryParam(name)
		if raw == "" {
			return NewBadRequestError("missing viewport parameter "+name, nil)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return NewBadRequestError("invalid viewport parameter "+name, err)
		}
		coords[name] = v
	}

	sub, ok := h.sessionMgr.QueryViewport(c.Request().Context(), id,
		coords["x0"], coords["y0"], coords["x1"], coords["y1"])
	if !ok {
		return NewNotFoundError("scene", id)
	}
	h.sessionMgr.TouchSession(id)
	return c.JSON(http.StatusOK, sub)
}

// HandleGetPointByLabel returns the point declared under a label.
func (h *SceneHandlerImpl) HandleGetPointByLabel(c echo.Context) error {
	id := c.Param("sessionId")
	label := c.Param("label")

	p, found, ok := h.sessionMgr.GetPointByLabel(c.Request().Context(), id, label)
	if !ok {
		return NewNotFoundError("scene", id)
	}
	if !found {
		return NewNotFoundError("point", label)
	}
	return c.JSON(http.StatusOK, p)
}

// HandleGetBounds returns the scene's bounding box.
func (h *SceneHandlerImpl) HandleGetBounds(c echo.Context) error {
	id := c.Param("sessionId")

	minX, minY, maxX, maxY, has, ok := h.sessionMgr.GetBounds(c.Request().Context(), id)
	if !ok {
		return NewNotFoundError("scene", id)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"empty": !has,
		"minX":  minX,
		"minY":  minY,
		"maxX":  maxX,
		"maxY":  maxY,
	})
}
