package xmlwalk

import "github.com/jacoelho/xmlpull/pkg/xmltok"

// Stats summarizes an event stream.
type Stats struct {
	StartElements int64
	EndElements   int64
	SelfClosing   int64
	Texts         int64
	TextBytes     int64
	// MaxDepth counts open elements, including self-closing ones.
	MaxDepth int
	depth    int
}

// Events reports the total number of events counted, excluding EndOfStream.
func (s *Stats) Events() int64 {
	return s.StartElements + s.EndElements + s.Texts
}

// Add counts one event. Unbalanced input is counted as is.
func (s *Stats) Add(ev xmltok.Event) {
	switch ev.Kind {
	case xmltok.KindStartElement:
		s.StartElements++
		s.depth++
		s.MaxDepth = max(s.MaxDepth, s.depth)
		if ev.SelfClosing {
			s.SelfClosing++
			s.depth--
		}
	case xmltok.KindEndElement:
		s.EndElements++
		if s.depth > 0 {
			s.depth--
		}
	case xmltok.KindText:
		s.Texts++
		s.TextBytes += int64(len(ev.Text))
	}
}

// Count drains r and returns its statistics.
func Count(r EventReader) (Stats, error) {
	var stats Stats
	err := Each(r, func(ev xmltok.Event) error {
		stats.Add(ev)
		return nil
	})
	return stats, err
}
