// Package planmd renders a logical query plan tree as HTML: the plan is
// built as a Markdown document tree through goldmark's AST node
// constructors rather than by hand-formatting strings, then written out
// by goldmark's default (HTML) renderer.
package planmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	astpkg "github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/query/plan"
)

// builder accumulates a shared source buffer that the constructed AST's
// Text/FencedCodeBlock segments point into, since goldmark renders nodes
// by slicing a single source byte slice at render time.
type builder struct {
	source strings.Builder
}

func (b *builder) text(s string) *ast.Text {
	start := b.source.Len()
	b.source.WriteString(s)
	end := b.source.Len()

	t := ast.NewText()
	t.Segment = text.NewSegment(start, end)

	return t
}

func (b *builder) heading(level int, s string) *ast.Heading {
	h := ast.NewHeading(level)
	h.AppendChild(h, b.text(s))

	return h
}

func (b *builder) paragraph(s string) *ast.Paragraph {
	p := ast.NewParagraph()
	p.AppendChild(p, b.text(s))

	return p
}

func (b *builder) codeBlock(lang, code string) *ast.FencedCodeBlock {
	info := b.text(lang)
	cb := ast.NewFencedCodeBlock(info)

	start := b.source.Len()
	b.source.WriteString(code)

	if !strings.HasSuffix(code, "\n") {
		b.source.WriteString("\n")
	}

	end := b.source.Len()
	cb.Lines().Append(text.NewSegment(start, end))

	return cb
}

// Render writes root as HTML rendered from a Markdown document tree: a
// top-level heading, then one subsection per plan node visited
// depth-first, each with a fenced block describing that node's fields.
// The output is goldmark's HTML rendering of that tree, not Markdown text.
func Render(w io.Writer, root plan.Node) error {
	b := &builder{}

	doc := ast.NewDocument()
	doc.AppendChild(doc, b.heading(1, "Query plan"))

	walk(doc, b, root, 1)

	md := goldmark.New()

	return md.Renderer().Render(w, []byte(b.source.String()), doc)
}

func walk(doc *ast.Document, b *builder, n plan.Node, depth int) {
	level := depth + 1
	if level > 6 {
		level = 6
	}

	kind, detail, children := describe(n)

	doc.AppendChild(doc, b.heading(level, kind))

	if detail != "" {
		doc.AppendChild(doc, b.codeBlock("text", detail))
	}

	for _, child := range children {
		walk(doc, b, child, depth+1)
	}
}

// describe returns a node's label, a one-block textual summary of its
// non-child fields, and its child nodes in plan order.
func describe(n plan.Node) (kind, detail string, children []plan.Node) {
	switch v := n.(type) {
	case plan.Nothing:
		return "Nothing", "", nil
	case *plan.Scan:
		return "Scan", fmt.Sprintf("name: %s\nalias: %s", v.Name, v.Alias), nil
	case *plan.EvalScan:
		return "EvalScan", fmt.Sprintf("alias: %s", v.Alias), nil
	case *plan.Join:
		return fmt.Sprintf("Join (%s)", joinKindName(v.Kind)), "", []plan.Node{v.Left, v.Right}
	case *plan.Subquery:
		return "Subquery", fmt.Sprintf("alias: %s", v.Alias), []plan.Node{v.Plan}
	case *plan.Filter:
		return "Filter", "", []plan.Node{v.Input}
	case *plan.Aggregate:
		names := make([]string, len(v.Aggregations))
		for i, a := range v.Aggregations {
			names[i] = a.Name
		}

		return "Aggregate", fmt.Sprintf("group by terms: %d\naggregations: %s", len(v.GroupBy), strings.Join(names, ", ")), []plan.Node{v.Input}
	case *plan.Projection:
		return "Projection", fmt.Sprintf("items: %d", len(v.Items)), []plan.Node{v.Input}
	case *plan.Order:
		return "Order", fmt.Sprintf("terms: %d", len(v.Terms)), []plan.Node{v.Input}
	case *plan.Limit:
		return "Limit", "", []plan.Node{v.Input}
	case *plan.Offset:
		return "Offset", "", []plan.Node{v.Input}
	case *plan.Compound:
		return fmt.Sprintf("Compound (%s)", compoundOpName(v.Operator)), "", []plan.Node{v.Left, v.Right}
	default:
		return fmt.Sprintf("%T", n), "", nil
	}
}

func joinKindName(k astpkg.JoinType) string {
	switch k {
	case astpkg.JoinCross:
		return "cross"
	case astpkg.JoinInner:
		return "inner"
	case astpkg.JoinLeft:
		return "left outer"
	default:
		return "unknown"
	}
}

func compoundOpName(op astpkg.CompoundOp) string {
	switch op {
	case astpkg.CompoundUnion:
		return "union"
	case astpkg.CompoundUnionAll:
		return "union all"
	case astpkg.CompoundIntersect:
		return "intersect"
	case astpkg.CompoundExcept:
		return "except"
	default:
		return "unknown"
	}
}
