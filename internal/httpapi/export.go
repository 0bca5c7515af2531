package httpapi

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/cram-flow/internal/exporter"
	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
)

func (h *handler) exportNotes(c *gin.Context) {
	h.export(c, "notes", func(res pipeline.Results, path string) error {
		return exporter.NotesToDocx(documentTitle(res, "Study Notes"), res.Notes, path)
	})
}

func (h *handler) exportQuiz(c *gin.Context) {
	h.export(c, "quiz", func(res pipeline.Results, path string) error {
		return exporter.QuizToDocx(documentTitle(res, "Quiz"), res.Quiz, path)
	})
}

// export renders a document into a scratch directory and serves it. The
// directory is gone once the response is written.
func (h *handler) export(c *gin.Context, kind string, render func(res pipeline.Results, path string) error) {
	id := c.Param("id")
	res, err := h.svc.Results(id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	dir, err := os.MkdirTemp(h.opts.ExportDir, "export-*")
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, kind+".docx")
	if err := render(res, path); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	c.FileAttachment(path, "cramAI_"+kind+"_"+id+".docx")
}

func documentTitle(res pipeline.Results, suffix string) string {
	name := strings.TrimSuffix(res.SourceName, filepath.Ext(res.SourceName))
	if name == "" {
		return suffix
	}
	return name + " - " + suffix
}
