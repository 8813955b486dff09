package xmltok

// Kind identifies the structural kind of an Event.
type Kind byte

const (
	KindNone Kind = iota
	KindStartElement
	KindEndElement
	KindText
	KindEndOfStream
)

// String returns a stable name for the kind, suitable for debugging.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindStartElement:
		return "StartElement"
	case KindEndElement:
		return "EndElement"
	case KindText:
		return "Text"
	case KindEndOfStream:
		return "EndOfStream"
	default:
		return "Unknown"
	}
}
