package xmlwalk

import (
	"errors"

	"github.com/jacoelho/xmlpull/pkg/xmltok"
)

// ErrStop may be returned by an Each callback to end the walk early.
var ErrStop = errors.New("xmlwalk: stop")

// EventReader is the pull contract implemented by *xmltok.Tokenizer and *Balancer.
type EventReader interface {
	Next() (xmltok.Event, error)
}

// Each calls fn for every event before EndOfStream.
// Returning ErrStop from fn ends the walk without error.
func Each(r EventReader, fn func(xmltok.Event) error) error {
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if ev.Kind == xmltok.KindEndOfStream {
			return nil
		}
		if err := fn(ev); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}
