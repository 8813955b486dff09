package xmlwalk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jacoelho/xmlpull/pkg/xmltok"
)

var (
	// ErrMismatchedEnd reports an end element that does not close the open element.
	ErrMismatchedEnd = errors.New("mismatched end element")
	// ErrUnexpectedEnd reports an end element with no open element.
	ErrUnexpectedEnd = errors.New("end element with no open element")
	// ErrUnclosed reports end of stream with elements still open.
	ErrUnclosed = errors.New("unclosed element at end of stream")
	// ErrDepthLimit reports nesting deeper than MaxDepth.
	ErrDepthLimit = errors.New("element depth exceeds MaxDepth")
)

type stackEntry struct {
	StackEntry
	childCount int64
}

// Balancer wraps an EventReader and produces a balanced event sequence.
// A self-closing start element is followed by a synthesized end element,
// and every end element must match the innermost open element.
type Balancer struct {
	r            EventReader
	err          error
	stack        []stackEntry
	pending      xmltok.Event
	rootCount    int64
	pendingValid bool

	// MaxDepth limits element nesting. Zero means no limit.
	MaxDepth int
}

// NewBalancer returns a Balancer reading from r.
func NewBalancer(r EventReader) *Balancer {
	return &Balancer{r: r}
}

// Next returns the next balanced event. Errors are sticky.
func (b *Balancer) Next() (xmltok.Event, error) {
	if b.err != nil {
		return xmltok.Event{}, b.err
	}
	if b.pendingValid {
		ev := b.pending
		b.pending = xmltok.Event{}
		b.pendingValid = false
		b.pop()
		return ev, nil
	}
	ev, err := b.r.Next()
	if err != nil {
		return xmltok.Event{}, b.fail(err)
	}
	switch ev.Kind {
	case xmltok.KindStartElement:
		if err := b.push(ev.Name); err != nil {
			return xmltok.Event{}, b.fail(fmt.Errorf("%w: <%s> at offset %d", err, ev.Name, ev.Offset))
		}
		if ev.SelfClosing {
			b.pending = xmltok.Event{
				Kind:   xmltok.KindEndElement,
				Name:   bytes.Clone(ev.Name),
				Offset: ev.Offset,
			}
			b.pendingValid = true
		}
	case xmltok.KindEndElement:
		if len(b.stack) == 0 {
			return xmltok.Event{}, b.fail(fmt.Errorf("%w: </%s> at offset %d", ErrUnexpectedEnd, ev.Name, ev.Offset))
		}
		top := b.stack[len(b.stack)-1].Name
		if top != string(ev.Name) {
			return xmltok.Event{}, b.fail(fmt.Errorf("%w: </%s> at offset %d closes <%s>", ErrMismatchedEnd, ev.Name, ev.Offset, top))
		}
		b.pop()
	case xmltok.KindEndOfStream:
		if len(b.stack) > 0 {
			return xmltok.Event{}, b.fail(fmt.Errorf("%w: %s", ErrUnclosed, b.Path(nil)))
		}
	}
	return ev, nil
}

// Depth reports the number of open elements.
func (b *Balancer) Depth() int {
	return len(b.stack)
}

// Top returns the innermost open element.
func (b *Balancer) Top() (StackEntry, bool) {
	if len(b.stack) == 0 {
		return StackEntry{}, false
	}
	return b.stack[len(b.stack)-1].StackEntry, true
}

// Path returns a snapshot of the open element stack, reusing dst.
func (b *Balancer) Path(dst Path) Path {
	if cap(dst) < len(b.stack) {
		dst = make(Path, 0, len(b.stack))
	} else {
		dst = dst[:0]
	}
	for _, entry := range b.stack {
		dst = append(dst, entry.StackEntry)
	}
	return dst
}

func (b *Balancer) fail(err error) error {
	b.err = err
	return err
}

func (b *Balancer) push(name []byte) error {
	if b.MaxDepth > 0 && len(b.stack)+1 > b.MaxDepth {
		return ErrDepthLimit
	}
	var index int64
	if len(b.stack) == 0 {
		b.rootCount++
		index = b.rootCount
	} else {
		parent := &b.stack[len(b.stack)-1]
		parent.childCount++
		index = parent.childCount
	}
	b.stack = append(b.stack, stackEntry{
		StackEntry: StackEntry{Name: string(name), Index: index},
	})
	return nil
}

func (b *Balancer) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}
