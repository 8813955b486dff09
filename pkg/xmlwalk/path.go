package xmlwalk

import "strconv"

// StackEntry captures the name and ordinal for an open element.
// Index is the 1-based position among the parent's child elements.
type StackEntry struct {
	Name  string
	Index int64
}

// Path is a snapshot of the open element stack.
type Path []StackEntry

// String renders the path as /root[1]/item[2].
func (p Path) String() string {
	return string(p.AppendTo(nil))
}

// AppendTo appends the rendered path to dst.
func (p Path) AppendTo(dst []byte) []byte {
	for _, entry := range p {
		dst = append(dst, '/')
		dst = append(dst, entry.Name...)
		dst = append(dst, '[')
		dst = strconv.AppendInt(dst, entry.Index, 10)
		dst = append(dst, ']')
	}
	return dst
}
