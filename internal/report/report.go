// Package report renders the typed errors raised by each layer of the
// language pipeline (scanner, parser, resolver, evaluator, planner) as a
// labelled, colorized source excerpt, the way a CLI prints a diagnostic.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/interp"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/parser"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/scanner"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
	"github.com/lykia-rs/lykiadb-sub001/internal/query/plan"
)

var (
	errorLabelFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	sourceNameFmt  = color.New(color.FgCyan).SprintFunc()
	lineNumberFmt  = color.New(color.FgBlue, color.Bold).SprintFunc()
	gutterFmt      = color.New(color.FgBlue).SprintFunc()
	markerFmt      = color.New(color.FgRed, color.Bold).SprintFunc()
	messageFmt     = color.New(color.FgRed).SprintFunc()
)

// Reporter renders diagnostics to an output writer.
type Reporter struct {
	Out io.Writer
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{Out: out}
}

// Report prints a labelled, colorized excerpt of sourceText around the
// span carried by err, if err is one of the pipeline's typed error
// structs. Any other error is printed as a plain message.
func (r *Reporter) Report(sourceName, sourceText string, err error) {
	if err == nil {
		return
	}

	label, span, msg := describe(err)

	fmt.Fprintf(r.Out, "%s: %s\n", errorLabelFmt(label), messageFmt(msg))
	fmt.Fprintf(r.Out, "  %s %s\n", gutterFmt("-->"), sourceNameFmt(sourceName))

	if span == (token.Span{}) {
		return
	}

	r.printExcerpt(sourceText, span)
}

func describe(err error) (label string, span token.Span, msg string) {
	switch e := err.(type) {
	case *scanner.Error:
		return "scan error", e.Span, e.Error()
	case *parser.Error:
		return "parse error", e.Span, e.Error()
	case *resolver.Error:
		return "resolve error", e.Span, e.Error()
	case *interp.Error:
		return "eval error", e.Span, e.Error()
	case *plan.Error:
		return "plan error", e.Span, e.Error()
	default:
		return "error", token.Span{}, err.Error()
	}
}

// printExcerpt prints the source line on which span starts, with a caret
// marker under the offending range on that line.
func (r *Reporter) printExcerpt(sourceText string, span token.Span) {
	lines := strings.Split(sourceText, "\n")
	lineIdx := span.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return
	}

	line := lines[lineIdx]
	lineNo := lineNumberFmt(span.Line)

	fmt.Fprintf(r.Out, "   %s | %s\n", lineNo, line)

	col := columnOf(lines, lineIdx, span.Start)
	width := span.End - span.Start
	if width < 1 {
		width = 1
	}

	padding := strings.Repeat(" ", len(fmt.Sprintf("%d", span.Line))+col+6)
	fmt.Fprintf(r.Out, "%s%s\n", padding, markerFmt(strings.Repeat("^", width)))
}

// columnOf converts a rune offset into the source (the unit token.Span
// uses) into a column on the line at lineIdx, given the offset is
// measured from the start of the whole source text.
func columnOf(lines []string, lineIdx int, offset int) int {
	consumed := 0
	for i := 0; i < lineIdx; i++ {
		consumed += len([]rune(lines[i])) + 1 // +1 for the stripped '\n'
	}

	col := offset - consumed
	if col < 0 {
		col = 0
	}

	return col
}
