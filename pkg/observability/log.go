package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks writes pipeline events to a logger at debug level.
type LogPipelineHooks struct {
	Logger *log.Logger
}

func (h LogPipelineHooks) logger() *log.Logger {
	if h.Logger == nil {
		return log.Default()
	}
	return h.Logger
}

func (h LogPipelineHooks) OnSampleStart(_ context.Context, lineCount int) {
	h.logger().Debug("sampling strokes", "lines", lineCount)
}

func (h LogPipelineHooks) OnSampleComplete(_ context.Context, lineCount int, d time.Duration, err error) {
	if err != nil {
		h.logger().Warn("sampling failed", "lines", lineCount, "error", err)
		return
	}
	h.logger().Debug("sampled strokes", "lines", lineCount, "duration", d)
}

func (h LogPipelineHooks) OnSynthesizeStart(_ context.Context, lineCount int) {
	h.logger().Debug("processing strokes", "lines", lineCount)
}

func (h LogPipelineHooks) OnSynthesizeComplete(_ context.Context, pathCount int, d time.Duration, err error) {
	if err != nil {
		h.logger().Warn("processing failed", "error", err)
		return
	}
	h.logger().Debug("processed strokes", "paths", pathCount, "duration", d)
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger().Debug("rendering", "formats", formats)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger().Warn("render failed", "formats", formats, "error", err)
		return
	}
	h.logger().Debug("rendered", "formats", formats, "duration", d)
}

var _ PipelineHooks = LogPipelineHooks{}
