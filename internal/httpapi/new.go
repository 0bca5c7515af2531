package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
)

// multipartOverhead is room for form boundaries and headers on top of the
// video itself.
const multipartOverhead = 1 << 20

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// MaxUploadBytes caps the video size; the request body may exceed it
	// by the multipart framing only.
	MaxUploadBytes int64
	// MaxMultipartMemory is how much of a multipart body gin keeps in memory.
	MaxMultipartMemory int64
	// ExportDir holds generated .docx files while they are served.
	ExportDir string
}

type handler struct {
	svc    pipeline.Service
	opts   Options
	logger logger.Logger
}

// New builds the gin engine serving the API.
func New(svc pipeline.Service, opts Options, log logger.Logger) http.Handler {
	h := &handler{svc: svc, opts: opts, logger: log}

	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	r.Use(h.recovery(), h.requestLogger(), cors(opts.AllowedOrigins))
	h.routes(r)
	return r
}

func (h *handler) routes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/upload", h.upload)
	api.GET("/status/:id", h.status)
	api.GET("/results/:id", h.results)
	api.GET("/audio/:id", h.audio)
	api.DELETE("/task/:id", h.deleteTask)
	api.GET("/tasks", h.listTasks)
	api.GET("/export/:id/notes.docx", h.exportNotes)
	api.GET("/export/:id/quiz.docx", h.exportQuiz)
}
