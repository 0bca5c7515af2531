package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

type uploadResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

type statusResponse struct {
	TaskID      string      `json:"task_id"`
	Status      task.Status `json:"status"`
	Progress    int         `json:"progress"`
	CurrentStep string      `json:"current_step"`
}

type resultsResponse struct {
	TaskID   string          `json:"task_id"`
	Notes    []task.Section  `json:"notes"`
	Quiz     []task.Question `json:"quiz"`
	AudioURL string          `json:"audio_url"`
}

func (h *handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CramAI Backend API",
		"docs":    "/api/tasks",
		"health":  "ok",
	})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *handler) upload(c *gin.Context) {
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("File too large. Maximum size: %dMB", h.opts.MaxUploadBytes/(1024*1024)))
			return
		}
		abortWithDetail(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	id, err := h.svc.Submit(c.Request.Context(), pipeline.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Save:        saveTo(c, fh),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		TaskID:  id,
		Message: "Video uploaded successfully. Processing started.",
	})
}

func saveTo(c *gin.Context, fh *multipart.FileHeader) func(dst string) error {
	return func(dst string) error {
		return c.SaveUploadedFile(fh, dst)
	}
}

func (h *handler) status(c *gin.Context) {
	view, err := h.svc.Status(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		TaskID:      view.TaskID,
		Status:      view.Status,
		Progress:    view.Progress,
		CurrentStep: view.CurrentStep,
	})
}

func (h *handler) results(c *gin.Context) {
	id := c.Param("id")
	res, err := h.svc.Results(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultsResponse{
		TaskID:   res.TaskID,
		Notes:    res.Notes,
		Quiz:     res.Quiz,
		AudioURL: "/api/audio/" + id,
	})
}

func (h *handler) audio(c *gin.Context) {
	id := c.Param("id")
	path, err := h.svc.Narration(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(path, "cramAI_voice_"+id+".mp3")
}

func (h *handler) deleteTask(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *handler) listTasks(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithDetail(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"tasks": h.svc.List(limit)})
}

// writeError maps service errors onto the status codes the frontend expects.
func (h *handler) writeError(c *gin.Context, err error) {
	var (
		validation *pipeline.ValidationError
		notReady   *pipeline.NotReadyError
		failed     *pipeline.FailedError
	)

	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		abortWithDetail(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, pipeline.ErrNarrationNotFound):
		abortWithDetail(c, http.StatusNotFound, "Audio not found")
	case errors.As(err, &validation):
		abortWithDetail(c, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notReady):
		abortWithDetail(c, http.StatusBadRequest, notReady.Error())
	case errors.As(err, &failed):
		abortWithDetail(c, http.StatusInternalServerError, failed.Message)
	case errors.Is(err, pipeline.ErrShuttingDown):
		abortWithDetail(c, http.StatusServiceUnavailable, "Service is shutting down")
	default:
		h.logger.Error(c.Request.Context(), "Request %s failed: %s", c.Request.URL.Path, logger.FormatError(err))
		abortWithDetail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func abortWithDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}
