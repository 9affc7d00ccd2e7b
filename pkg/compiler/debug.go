package compiler

import (
	"fmt"

	"tlog.app/go/tlog"
)

// Errorf is the ORC_COMPILER_ERROR channel: it latches
// ctx.Error and logs a diagnostic. It does not set ctx.Result — the
// caller still decides which Result the failure maps to, the same way
// the original macro only ever sets compiler->error and leaves
// compiler->result to the call site.
func (ctx *Context) Errorf(format string, args ...any) {
	ctx.Error = true
	tlog.Printw("compile error", "program", programName(ctx), "msg", fmt.Sprintf(format, args...))
}

func programName(ctx *Context) string {
	if ctx.Program == nil {
		return ""
	}
	return ctx.Program.Name
}

// logInfo and logWarning are the ORC_INFO/ORC_WARNING channels: purely
// advisory, never touch ctx.Error.
func logInfo(format string, args ...any) {
	tlog.Printw("info", "msg", fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	tlog.Printw("warning", "msg", fmt.Sprintf(format, args...))
}
