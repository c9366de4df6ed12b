package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/zksc-ffi/config"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/externs"
	"github.com/wippyai/zksc-ffi/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer writes command output, styled only when w is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, color: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintf(p.w, "%s\n\n", p.render(titleStyle, s))
}

func (p *printer) note(s string) {
	fmt.Fprintln(p.w, p.render(helpStyle, s))
}

func (p *printer) signature(sig extern.Signature) {
	fmt.Fprintf(p.w, "  %s\n", p.formatSignature(sig))
}

func (p *printer) formatSignature(sig extern.Signature) string {
	var b strings.Builder
	b.WriteString(p.render(funcStyle, sig.Name))
	if len(sig.TypeParams) > 0 {
		parts := make([]string, len(sig.TypeParams))
		for i, k := range sig.TypeParams {
			parts[i] = k.String()
		}
		b.WriteString("[" + p.render(typeStyle, strings.Join(parts, ", ")) + "]")
	}
	parts := make([]string, len(sig.Params))
	for i, prm := range sig.Params {
		parts[i] = p.render(typeStyle, prm.String())
	}
	b.WriteString("(" + strings.Join(parts, ", ") + ")")
	switch len(sig.Results) {
	case 0:
	case 1:
		b.WriteString(" -> " + p.render(typeStyle, sig.Results[0].String()))
	default:
		rs := make([]string, len(sig.Results))
		for i, r := range sig.Results {
			rs[i] = r.String()
		}
		b.WriteString(" -> " + p.render(typeStyle, "("+strings.Join(rs, ", ")+")"))
	}
	return b.String()
}

func (p *printer) call(s externs.Sample, got value.Value, ok bool) {
	mark := p.render(resultStyle, "ok")
	if !ok {
		mark = p.render(errorStyle, "MISMATCH want "+s.Want)
	}
	fmt.Fprintf(p.w, "  %s = %s  %s\n", p.render(funcStyle, s.Name), p.render(resultStyle, got.String()), mark)
	for i, slot := range s.Refs() {
		v := slot.Load()
		fmt.Fprintf(p.w, "      ref %d -> %s\n", i, p.render(typeStyle, v.String()))
		v.Release()
	}
}

func (p *printer) failure(name, msg string) {
	fmt.Fprintf(p.w, "  %s  %s\n", p.render(funcStyle, name), p.render(errorStyle, "Error: "+msg))
}

func (p *printer) matrix(m *config.Matrix, res value.Value, decode bool) {
	op := "encode"
	if decode {
		op = "decode"
	}
	p.title(fmt.Sprintf("%s mod %s, data %s", op, m.Modulus, m.Domain))
	for _, row := range res.AsList() {
		cells := make([]string, 0, row.Len())
		for _, x := range row.AsList() {
			cells = append(cells, formatCell(x, decode))
		}
		fmt.Fprintf(p.w, "  [%s]\n", p.render(resultStyle, strings.Join(cells, ", ")))
	}
}

// formatCell prints decoded cells as signed integers.
func formatCell(x value.Value, signed bool) string {
	if signed && x.Kind() == value.KindU128 {
		return value.U128Signed(x.AsU128()).String()
	}
	return x.String()
}
