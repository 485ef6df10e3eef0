package gltfjson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-loupe/common"
)

// Path addresses a value inside a document, one segment per array index or
// object key, written as "/skins/0/inverseBindMatrices".
type Path []string

// ParsePath splits a slash separated path. "" and "/" address the root.
// Segments use JSON pointer escaping: "~1" for "/" and "~0" for "~".
func ParsePath(s string) Path {
	s = strings.Trim(s, "/")
	if s == "" {
		return Path{}
	}
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return Path(parts)
}

// String joins the path back into its slash separated form.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('/')
		sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return sb.String()
}

// Child returns a copy of p extended by seg.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// IndexAt parses segment i as a non-negative array index.
func (p Path) IndexAt(i int) (int, bool) {
	if i < 0 || i >= len(p) {
		return 0, false
	}
	n, err := strconv.Atoi(p[i])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Lookup resolves path against root.
//
// Parameters:
//   - root: the document root
//   - path: the path to resolve
//
// Returns:
//   - Value: the addressed value
//   - error: error wrapping common.ErrIndexOutOfRange, naming the first segment that does not resolve
func Lookup(root Value, path Path) (Value, error) {
	cur := root
	for i, seg := range path {
		var (
			next Value
			ok   bool
		)
		switch cur.kind {
		case Array:
			if n, err := strconv.Atoi(seg); err == nil {
				next, ok = cur.Index(n)
			}
		case Object:
			next, ok = cur.Field(seg)
		}
		if !ok {
			return Value{}, fmt.Errorf("%w: path %s: no %s segment %q", common.ErrIndexOutOfRange, path[:i+1], cur.kind, seg)
		}
		cur = next
	}
	return cur, nil
}

// Walk visits root and every nested value in document order.
// Returning false from fn skips the children of the visited value.
func Walk(root Value, fn func(path Path, v Value) bool) {
	walk(Path{}, root, fn)
}

func walk(path Path, v Value, fn func(Path, Value) bool) {
	if !fn(path, v) {
		return
	}
	switch v.kind {
	case Array:
		for i, e := range v.elems {
			walk(path.Child(strconv.Itoa(i)), e, fn)
		}
	case Object:
		for _, m := range v.members {
			walk(path.Child(m.Key), m.Value, fn)
		}
	}
}
