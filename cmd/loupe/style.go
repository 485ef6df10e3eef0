package main

import (
	"io"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/config"
	"github.com/muesli/termenv"
)

// style colours terminal output according to [output] color.
type style struct {
	out *termenv.Output
}

func newStyle(w io.Writer, mode string) style {
	switch mode {
	case config.ColorNever:
		return style{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	case config.ColorAlways:
		return style{out: termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI256))}
	default:
		return style{out: termenv.NewOutput(w)}
	}
}

func (s style) failure(text string) string {
	return s.out.String(text).Foreground(s.out.Color("9")).Bold().String()
}

func (s style) ok(text string) string {
	return s.out.String(text).Foreground(s.out.Color("10")).String()
}

func (s style) heading(text string) string {
	return s.out.String(text).Bold().String()
}

func (s style) dim(text string) string {
	return s.out.String(text).Faint().String()
}
