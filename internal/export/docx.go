package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/segment-flow/internal/domain"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

func (e *implExporter) Summary(ctx context.Context, name, summary string, segments []domain.Segment) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), name, true, 16)
	writeMarkdown(doc, summary)

	if len(segments) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Segments", true, 15)
		for _, s := range segments {
			heading := fmt.Sprintf("%d. %s - %s", s.SegmentID, formatTimestamp(s.StartTime), formatTimestamp(s.EndTime))
			addStyledRun(doc.AddParagraph(""), heading, true, fontSize)
			doc.AddParagraph("").AddText(s.Text).Font(fontName).Size(fontSize).Color("000000")
		}
	}

	path := filepath.Join(e.dir, name+"_summary.docx")
	if err := doc.SaveTo(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	e.logger.Info(ctx, "Exported summary to %s", path)
	return path, nil
}

// writeMarkdown renders headings, bullets, numbered items and bold spans; other lines become plain paragraphs.
func writeMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
