package xmlwalk

import "github.com/jacoelho/xmlpull/pkg/xmltok"

// CollectText returns the text runs whose innermost enclosing element is
// named name, in document order. The input must be balanced.
func CollectText(r EventReader, name string) ([]string, error) {
	b := NewBalancer(r)
	var out []string
	err := Each(b, func(ev xmltok.Event) error {
		if ev.Kind != xmltok.KindText {
			return nil
		}
		if top, ok := b.Top(); ok && top.Name == name {
			out = append(out, string(ev.Text))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FirstText returns the first text run directly inside an element named
// name and stops reading. It reports false when no such text exists.
func FirstText(r EventReader, name string) (string, bool, error) {
	b := NewBalancer(r)
	var (
		text  string
		found bool
	)
	err := Each(b, func(ev xmltok.Event) error {
		if ev.Kind != xmltok.KindText {
			return nil
		}
		if top, ok := b.Top(); ok && top.Name == name {
			text = string(ev.Text)
			found = true
			return ErrStop
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return text, found, nil
}
