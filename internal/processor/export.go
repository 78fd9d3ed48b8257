package processor

import (
	"context"
)

// export writes the configured spreadsheet and document copies.
// Failures are logged and never fail the run.
func (p *implProcessor) export(ctx context.Context, state *runState) {
	if p.deps.Exporter == nil || (!p.cfg.Export.XLSX && !p.cfg.Export.DOCX) {
		return
	}

	segments, err := state.store.LoadSegments()
	if err != nil {
		p.logger.Warn(ctx, "Skipping export, segments unavailable: %v", err)
		return
	}
	name := state.store.Name()

	if p.cfg.Export.XLSX {
		if path, err := p.deps.Exporter.Segments(ctx, name, segments); err != nil {
			p.logger.Warn(ctx, "Failed to export segments: %v", err)
		} else {
			p.logger.Info(ctx, "Exported segments: %s", path)
		}
	}

	if p.cfg.Export.DOCX {
		summary := state.summary
		if summary == "" {
			if summary, err = state.store.LoadSummary(); err != nil {
				p.logger.Warn(ctx, "Skipping summary export: %v", err)
				return
			}
		}
		if path, err := p.deps.Exporter.Summary(ctx, name, summary, segments); err != nil {
			p.logger.Warn(ctx, "Failed to export summary: %v", err)
		} else {
			p.logger.Info(ctx, "Exported summary: %s", path)
		}
	}
}
