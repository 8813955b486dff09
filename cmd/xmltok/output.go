package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/jacoelho/xmlpull/pkg/xmltok"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonEvent struct {
	File        string `json:"file,omitempty"`
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Text        string `json:"text,omitempty"`
	Offset      int64  `json:"offset"`
	SelfClosing bool   `json:"self_closing,omitempty"`
}

type eventPrinter struct {
	w        io.Writer
	enc      *jsoniter.Encoder
	format   string
	withFile bool
}

func newEventPrinter(w io.Writer, format string, withFile bool) *eventPrinter {
	p := &eventPrinter{w: w, format: format, withFile: withFile}
	if format == formatJSON {
		p.enc = json.NewEncoder(w)
	}
	return p
}

func (p *eventPrinter) print(path string, ev xmltok.Event) error {
	if p.format == formatJSON {
		out := jsonEvent{
			Kind:        ev.Kind.String(),
			Name:        string(ev.Name),
			Text:        string(ev.Text),
			Offset:      ev.Offset,
			SelfClosing: ev.SelfClosing,
		}
		if p.withFile {
			out.File = path
		}
		return p.enc.Encode(out)
	}
	if p.withFile {
		_, err := fmt.Fprintf(p.w, "%s:%d\t%s\n", path, ev.Offset, ev)
		return err
	}
	_, err := fmt.Fprintf(p.w, "%d\t%s\n", ev.Offset, ev)
	return err
}
