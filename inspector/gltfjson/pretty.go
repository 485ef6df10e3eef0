package gltfjson

import (
	"io"
	"strconv"
	"strings"
)

// Pretty renders v as indented text for display.
// Arrays made only of numbers stay on one line, integers print verbatim and
// other numbers with three decimals.
func Pretty(v Value) string {
	var sb strings.Builder
	_ = WritePretty(&sb, v)
	return sb.String()
}

// WritePretty writes the Pretty form of v to w.
func WritePretty(w io.Writer, v Value) error {
	p := &printer{w: w}
	p.value(v, 0, false)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) value(v Value, level int, inline bool) {
	indent := strings.Repeat("  ", level)
	if !inline {
		p.write(indent)
	}

	switch v.kind {
	case Null:
		p.write("null")
	case Bool:
		p.write(strconv.FormatBool(v.boolean))
	case Number:
		p.write(formatNumber(v))
	case String:
		p.write(strconv.Quote(v.str))
	case Array:
		if numericOnly(v.elems) {
			parts := make([]string, len(v.elems))
			for i, e := range v.elems {
				parts[i] = formatNumber(e)
			}
			p.write("[" + strings.Join(parts, ", ") + "]")
			return
		}
		p.write("[\n")
		for i, e := range v.elems {
			p.value(e, level+1, false)
			if i+1 < len(v.elems) {
				p.write(",")
			}
			p.write("\n")
		}
		p.write(indent + "]")
	case Object:
		p.write("{\n")
		for i, m := range v.members {
			p.write(strings.Repeat("  ", level+1) + strconv.Quote(m.Key) + ": ")
			p.value(m.Value, level+1, true)
			if i+1 < len(v.members) {
				p.write(",")
			}
			p.write("\n")
		}
		p.write(indent + "}")
	}
}

func numericOnly(elems []Value) bool {
	for _, e := range elems {
		if e.kind != Number {
			return false
		}
	}
	return true
}

func formatNumber(v Value) string {
	if v.integer {
		return strconv.FormatInt(int64(v.number), 10)
	}
	return strconv.FormatFloat(v.number, 'f', 3, 64)
}
