package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/segment-flow/internal/domain"
	"github.com/xuri/excelize/v2"
)

const segmentsSheet = "Segments"

var segmentsHeader = []interface{}{
	"Segment", "Chunk", "Start", "End", "Duration (s)", "Total gap (s)", "Sentences", "Text",
}

func (e *implExporter) Segments(ctx context.Context, name string, segments []domain.Segment) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", segmentsSheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(segmentsSheet, "A1", &segmentsHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(segmentsSheet, "A1", "H1", bold); err != nil {
		return "", fmt.Errorf("style header: %w", err)
	}

	for i, s := range segments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		row := []interface{}{
			s.SegmentID,
			s.SourceChunk,
			formatTimestamp(s.StartTime),
			formatTimestamp(s.EndTime),
			s.Duration,
			s.TotalGap,
			len(s.SentenceIndexes),
			s.Text,
		}
		if err := f.SetSheetRow(segmentsSheet, cell, &row); err != nil {
			return "", fmt.Errorf("write segment %d: %w", s.SegmentID, err)
		}
	}

	if err := f.SetColWidth(segmentsSheet, "H", "H", 100); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, name+"_segments.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	e.logger.Info(ctx, "Exported %d segments to %s", len(segments), path)
	return path, nil
}

// formatTimestamp renders seconds as H:MM:SS.cc, or MM:SS.cc under an hour.
func formatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	cs := int64(sec*100 + 0.5)
	h := cs / 360000
	m := (cs / 6000) % 60
	s := (cs / 100) % 60
	frac := cs % 100
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, frac)
	}
	return fmt.Sprintf("%02d:%02d.%02d", m, s, frac)
}
