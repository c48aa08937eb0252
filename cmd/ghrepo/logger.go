package main

import (
	"io"
	"log/slog"

	"github.com/golang-cz/devslog"
)

// NewLogger logs warnings as text, or everything through devslog when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return slog.New(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{Level: slog.LevelDebug},
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
