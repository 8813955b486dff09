package xmltok

import (
	"bytes"
	"io"
	"iter"
)

var whitespaceLUT = [256]bool{
	'\t': true,
	'\n': true,
	'\r': true,
	' ':  true,
}

// nameStopLUT marks bytes that end an element name.
var nameStopLUT = [256]bool{
	'\t': true,
	'\n': true,
	'\r': true,
	' ':  true,
	'/':  true,
	'>':  true,
}

// Tokenizer pulls events from a byte stream through a fixed-size window.
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	cur     cursor
	err     error
	scratch []byte

	// space holds the trailing whitespace of a text run until more
	// content follows it.
	space         []byte
	spaceOverflow bool

	optsRaw Options
	opts    tokenizerOptions
	done    bool
}

// NewTokenizer creates a tokenizer reading from r.
func NewTokenizer(r io.Reader, opts ...Options) *Tokenizer {
	t := &Tokenizer{}
	t.Reset(r, opts...)
	return t
}

// Reset prepares the tokenizer for reading from r with new options.
// The window is reused when its capacity is unchanged.
func (t *Tokenizer) Reset(r io.Reader, opts ...Options) {
	if t == nil {
		return
	}
	joined := JoinOptions(opts...)
	t.optsRaw = joined
	t.opts = resolveOptions(joined)
	t.cur.reset(r, t.opts.bufferSize)
	t.scratch = t.scratch[:0]
	t.err = nil
	t.done = false
	if r == nil {
		t.err = errNilReader
	}
}

// Options returns the options snapshot the tokenizer was configured with.
func (t *Tokenizer) Options() Options {
	var zero Options
	if t == nil {
		return zero
	}
	return t.optsRaw
}

// Offset reports the number of input bytes consumed so far.
func (t *Tokenizer) Offset() int64 {
	if t == nil {
		return 0
	}
	return t.cur.offset()
}

// Next returns the next event. Once the source is exhausted every call
// returns an EndOfStream event. Errors are sticky: after a failure every
// call returns the same error. Errors from the source are returned as is.
func (t *Tokenizer) Next() (Event, error) {
	if t == nil {
		return Event{}, errNilReader
	}
	if t.err != nil {
		return Event{}, t.err
	}
	if t.done {
		return t.endEvent(), nil
	}
	for {
		ok, err := t.cur.ensureData()
		if err != nil {
			return Event{}, t.fail(err)
		}
		if !ok {
			t.done = true
			return t.endEvent(), nil
		}
		if err := t.skipWhitespace(); err != nil {
			return Event{}, t.fail(err)
		}
		if t.cur.pos >= t.cur.n {
			// whitespace ran up to the end of input
			continue
		}
		if t.cur.peek() == '<' {
			ev, err := t.scanTag()
			if err != nil {
				return Event{}, t.fail(err)
			}
			return ev, nil
		}
		ev, ok, err := t.scanText()
		if err != nil {
			return Event{}, t.fail(err)
		}
		if ok {
			return ev, nil
		}
	}
}

// All returns an iterator over the remaining events, excluding the final
// EndOfStream. An error is yielded once, after which iteration stops.
func (t *Tokenizer) All() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := t.Next()
			if err != nil {
				yield(Event{}, err)
				return
			}
			if ev.Kind == KindEndOfStream {
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func (t *Tokenizer) endEvent() Event {
	return Event{Kind: KindEndOfStream, Offset: t.cur.offset()}
}

func (t *Tokenizer) fail(err error) error {
	t.err = err
	return err
}

func syntaxError(offset int64, err error) error {
	return &SyntaxError{Offset: offset, Err: err}
}

func (t *Tokenizer) skipWhitespace() error {
	for {
		ok, err := t.cur.ensureData()
		if err != nil || !ok {
			return err
		}
		data := t.cur.window()
		i := 0
		for i < len(data) && isWhitespace(data[i]) {
			i++
		}
		t.cur.advance(i)
		if i < len(data) {
			return nil
		}
	}
}

// scanTag reads a start or end tag. The cursor is positioned at '<'.
func (t *Tokenizer) scanTag() (Event, error) {
	start := t.cur.offset()
	t.cur.advance(1)

	ok, err := t.cur.ensureData()
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, syntaxError(start, ErrUnterminatedTag)
	}
	kind := KindStartElement
	if t.cur.peek() == '/' {
		kind = KindEndElement
		t.cur.advance(1)
	}

	t.scratch = t.scratch[:0]
	for {
		ok, err := t.cur.ensureData()
		if err != nil {
			return Event{}, err
		}
		if !ok {
			return Event{}, syntaxError(start, ErrUnterminatedTag)
		}
		data := t.cur.window()
		i := 0
		for i < len(data) && !nameStopLUT[data[i]] {
			i++
		}
		if err := t.appendScratch(data[:i]); err != nil {
			return Event{}, syntaxError(start, err)
		}
		t.cur.advance(i)
		if i < len(data) {
			break
		}
	}
	if len(t.scratch) == 0 {
		return Event{}, syntaxError(start, ErrEmptyName)
	}
	name := bytes.Clone(t.scratch)

	selfClosing, err := t.skipTagRest(start)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Kind:        kind,
		Name:        name,
		Offset:      start,
		SelfClosing: selfClosing && kind == KindStartElement,
	}, nil
}

// skipTagRest consumes everything up to and including the closing '>'.
// Quoted attribute values are skipped whole. It reports whether the last
// significant byte before '>' was '/'.
func (t *Tokenizer) skipTagRest(start int64) (bool, error) {
	var quote byte
	slash := false
	for {
		ok, err := t.cur.ensureData()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, syntaxError(start, ErrUnterminatedTag)
		}
		data := t.cur.window()
		for i, b := range data {
			if quote != 0 {
				if b == quote {
					quote = 0
				}
				continue
			}
			switch {
			case b == '>':
				t.cur.advance(i + 1)
				return slash, nil
			case b == '"' || b == '\'':
				quote = b
				slash = false
			case b == '/':
				slash = true
			case isWhitespace(b):
			default:
				slash = false
			}
		}
		t.cur.advance(len(data))
	}
}

// scanText reads character data up to the next '<' or end of input and
// reports false when nothing remains after trimming. The cursor is
// positioned at a non-whitespace byte.
func (t *Tokenizer) scanText() (Event, bool, error) {
	start := t.cur.offset()
	t.scratch = t.scratch[:0]
	t.space = t.space[:0]
	t.spaceOverflow = false
	for {
		ok, err := t.cur.ensureData()
		if err != nil {
			return Event{}, false, err
		}
		if !ok {
			break
		}
		data := t.cur.window()
		i := bytes.IndexByte(data, '<')
		if i < 0 {
			i = len(data)
		}
		if err := t.appendText(data[:i]); err != nil {
			return Event{}, false, syntaxError(start, err)
		}
		t.cur.advance(i)
		if i < len(data) {
			break
		}
	}
	if len(t.scratch) == 0 {
		return Event{}, false, nil
	}
	return Event{Kind: KindText, Text: bytes.Clone(t.scratch), Offset: start}, true, nil
}

// appendText adds p to the text run. Trailing whitespace is held in
// t.space and counts toward MaxTokenSize only once content follows it.
func (t *Tokenizer) appendText(p []byte) error {
	last := len(p) - 1
	for last >= 0 && isWhitespace(p[last]) {
		last--
	}
	if last < 0 {
		t.holdSpace(p)
		return nil
	}
	if t.spaceOverflow {
		return ErrTokenTooLarge
	}
	if err := t.appendScratch(t.space); err != nil {
		return err
	}
	if err := t.appendScratch(p[:last+1]); err != nil {
		return err
	}
	t.space = t.space[:0]
	t.holdSpace(p[last+1:])
	return nil
}

// holdSpace keeps ws pending. Once the pending run alone would exceed
// MaxTokenSize it is dropped and any further content is an error.
func (t *Tokenizer) holdSpace(ws []byte) {
	if t.spaceOverflow || len(ws) == 0 {
		return
	}
	if limit := t.opts.maxTokenSize; limit > 0 && len(t.scratch)+len(t.space)+len(ws) > limit {
		t.spaceOverflow = true
		t.space = t.space[:0]
		return
	}
	t.space = append(t.space, ws...)
}

func (t *Tokenizer) appendScratch(p []byte) error {
	if t.opts.maxTokenSize > 0 && len(t.scratch)+len(p) > t.opts.maxTokenSize {
		return ErrTokenTooLarge
	}
	t.scratch = append(t.scratch, p...)
	return nil
}

func isWhitespace(b byte) bool {
	return whitespaceLUT[b]
}
