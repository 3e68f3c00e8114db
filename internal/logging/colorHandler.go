package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"
)

// ColorHandler wraps a text or JSON handler and paints records by level
// when the output is a terminal.
type ColorHandler struct {
	slog.Handler
	out       io.Writer
	mu        *sync.Mutex
	isColored bool
}

func NewColorHandler(out io.Writer, format string, opts *slog.HandlerOptions) *ColorHandler {
	isColored := false
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		isColored = true
	}

	var inner slog.Handler
	if format == "json" {
		inner = slog.NewJSONHandler(out, opts)
	} else {
		inner = slog.NewTextHandler(out, opts)
	}

	return &ColorHandler{
		Handler:   inner,
		out:       out,
		mu:        &sync.Mutex{},
		isColored: isColored,
	}
}

func (h *ColorHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.isColored {
		return h.Handler.Handle(ctx, r)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case r.Level >= slog.LevelError:
		fmt.Fprint(h.out, "\033[31m") // red
	case r.Level >= slog.LevelWarn:
		fmt.Fprint(h.out, "\033[33m") // yellow
	case r.Level < slog.LevelInfo:
		fmt.Fprint(h.out, "\033[34m") // blue
	}

	err := h.Handler.Handle(ctx, r)
	fmt.Fprint(h.out, "\033[0m")
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorHandler{Handler: h.Handler.WithAttrs(attrs), out: h.out, mu: h.mu, isColored: h.isColored}
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	return &ColorHandler{Handler: h.Handler.WithGroup(name), out: h.out, mu: h.mu, isColored: h.isColored}
}
