package xmltok

import "strconv"

// Event is one structural unit read from the stream.
// Name and Text are owned by the Event and never alias tokenizer buffers.
type Event struct {
	// Name holds the element name for start and end elements.
	Name []byte
	// Text holds trimmed character content for text events.
	Text []byte
	// Offset is the absolute byte offset where the token starts.
	Offset int64
	Kind   Kind
	// SelfClosing reports a start element written as <name/>.
	// No matching end element is emitted for it.
	SelfClosing bool
}

// IsEnd reports whether the event marks the end of the stream.
func (e Event) IsEnd() bool {
	return e.Kind == KindEndOfStream
}

// String renders the event for debugging, e.g. StartElement(root) or Text("v").
func (e Event) String() string {
	return string(e.AppendTo(nil))
}

// AppendTo appends the debugging form of the event to dst.
func (e Event) AppendTo(dst []byte) []byte {
	dst = append(dst, e.Kind.String()...)
	switch e.Kind {
	case KindStartElement, KindEndElement:
		dst = append(dst, '(')
		dst = append(dst, e.Name...)
		if e.SelfClosing {
			dst = append(dst, '/')
		}
		dst = append(dst, ')')
	case KindText:
		dst = append(dst, '(')
		dst = strconv.AppendQuote(dst, string(e.Text))
		dst = append(dst, ')')
	}
	return dst
}
