package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// logc logs with the position of the calling evaluator code and the current
// evaluation depth attached.
func (e *Evaluator) logc(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !e.logger.Enabled(ctx, level) {
		return
	}
	attrs := []any{slog.Int("depth", e.depth)}
	if _, file, line, ok := runtime.Caller(1); ok {
		attrs = append([]any{slog.String("exec_pos", fmt.Sprintf("%s:%d", file, line))}, attrs...)
	}
	e.logger.Log(ctx, level, msg, append(attrs, args...)...)
}
