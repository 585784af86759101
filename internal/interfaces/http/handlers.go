package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/presentor/internal/infrastructure/storage"
)

// Version is reported by the health check
var Version = "dev"

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Dependencies
	logger Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger Logger) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// RootResponse carries a storage root path
type RootResponse struct {
	Root string `json:"root"`
}

// ContentResponse carries a presentation document's text
type ContentResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ImportRequest is the body of POST /api/images/import
type ImportRequest struct {
	StorageDir string `json:"storage_dir"`
	SourcePath string `json:"source_path"`
}

// ImportResponse carries the stored image file name, relative to <root>/images
type ImportResponse struct {
	FileName string `json:"file_name"`
}

var errPathRequired = errors.New("path query parameter is required")

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

// DefaultRoot handles GET /api/storage/default-root
func (h *Handlers) DefaultRoot(c *gin.Context) {
	root, err := h.deps.Resolver.DefaultRoot()
	if err != nil {
		h.fail(c, "Failed to resolve default storage root", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: RootResponse{Root: root}})
}

// ListPresentations handles GET /api/presentations?root=
func (h *Handlers) ListPresentations(c *gin.Context) {
	root, ok := h.storageRoot(c, c.Query("root"))
	if !ok {
		return
	}

	entries, err := h.deps.Presentations.List(root)
	if err != nil {
		h.fail(c, "Failed to list presentations", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// ReadPresentation handles GET /api/presentations/content?path=
func (h *Handlers) ReadPresentation(c *gin.Context) {
	path, ok := h.requirePath(c)
	if !ok {
		return
	}

	content, err := h.deps.Presentations.Read(path)
	if err != nil {
		h.fail(c, "Failed to read presentation", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ContentResponse{Path: path, Content: content}})
}

// SavePresentation handles PUT /api/presentations/content?path= with the document as body
func (h *Handlers) SavePresentation(c *gin.Context) {
	path, ok := h.requirePath(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read request body", "path", path, "error", err)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read request body: " + err.Error()})
		return
	}

	if err := h.deps.Presentations.Save(path, string(body)); err != nil {
		h.fail(c, "Failed to save presentation", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// DeletePresentation handles DELETE /api/presentations?path=
func (h *Handlers) DeletePresentation(c *gin.Context) {
	path, ok := h.requirePath(c)
	if !ok {
		return
	}

	if err := h.deps.Presentations.Delete(path); err != nil {
		h.fail(c, "Failed to delete presentation", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListImages handles GET /api/images?root=
func (h *Handlers) ListImages(c *gin.Context) {
	root, ok := h.storageRoot(c, c.Query("root"))
	if !ok {
		return
	}

	entries, err := h.deps.Images.List(root)
	if err != nil {
		h.fail(c, "Failed to list images", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// ImportImage handles POST /api/images/import
func (h *Handlers) ImportImage(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	root, ok := h.storageRoot(c, req.StorageDir)
	if !ok {
		return
	}

	fileName, err := h.deps.Images.Import(root, req.SourcePath)
	if err != nil {
		h.fail(c, "Failed to import image", err)
		return
	}

	h.logger.Info("Image imported", "source", req.SourcePath, "file_name", fileName)
	c.JSON(http.StatusOK, Response{Success: true, Data: ImportResponse{FileName: fileName}})
}

// DeleteImage handles DELETE /api/images?path=
func (h *Handlers) DeleteImage(c *gin.Context) {
	path, ok := h.requirePath(c)
	if !ok {
		return
	}

	if err := h.deps.Images.Delete(path); err != nil {
		h.fail(c, "Failed to delete image", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// RawImage handles GET /api/images/raw?path=
func (h *Handlers) RawImage(c *gin.Context) {
	path, ok := h.requirePath(c)
	if !ok {
		return
	}

	rc, contentType, err := h.deps.Images.Open(path)
	if err != nil {
		h.fail(c, "Failed to open image", err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control": "no-cache",
	})
}

// Events handles GET /api/events as a server-sent event stream
func (h *Handlers) Events(c *gin.Context) {
	events, cancel := h.deps.Watcher.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent("change", ev)
			c.Writer.Flush()
		}
	}
}

// storageRoot returns root, or the default root when root is empty
func (h *Handlers) storageRoot(c *gin.Context, root string) (string, bool) {
	if root != "" {
		return root, true
	}
	root, err := h.deps.Resolver.DefaultRoot()
	if err != nil {
		h.fail(c, "Failed to resolve default storage root", err)
		return "", false
	}
	return root, true
}

func (h *Handlers) requirePath(c *gin.Context) (string, bool) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: errPathRequired.Error()})
		return "", false
	}
	return path, true
}

// fail logs err and writes it as text with a status derived from its kind
func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	kind := storage.KindOf(err)
	h.logger.Error(msg, "error", err, "kind", kind.String())
	c.JSON(statusFor(kind), Response{
		Success: false,
		Error:   err.Error(),
		Kind:    kind.String(),
	})
}

func statusFor(kind storage.Kind) int {
	switch kind {
	case storage.KindNotFound:
		return http.StatusNotFound
	case storage.KindInvalidSourcePath:
		return http.StatusBadRequest
	case storage.KindNoDocumentsDirectory:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
