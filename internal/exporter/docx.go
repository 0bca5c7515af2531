// Package exporter renders study material as Word documents.
package exporter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
	headSize  = 14
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// NotesToDocx writes the notes as a titled document with one heading per section.
func NotesToDocx(title string, notes []task.Section, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, section := range notes {
		addStyledRun(doc.AddParagraph(""), section.Title, true, headSize)
		for _, point := range section.Content {
			addRichText(doc.AddParagraph(""), "• "+point)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save notes document: %w", err)
	}
	return nil
}

// QuizToDocx writes the questions followed by an answer key.
func QuizToDocx(title string, quiz []task.Question, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, q := range quiz {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. %s", q.ID, q.Question), true, fontSize)
		for _, opt := range q.Options {
			addRichText(doc.AddParagraph(""), fmt.Sprintf("    %s) %s", opt.ID, opt.Text))
		}
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "Answer Key", true, headSize)
	for _, q := range quiz {
		addRichText(doc.AddParagraph(""), fmt.Sprintf("%d. **%s**: %s", q.ID, q.CorrectAnswer, q.Explanation))
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save quiz document: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans the model sometimes puts in bullet points.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
