package xmltok

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizerUnterminatedTag(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int64
		wantEvents int
	}{
		{name: "bare open", input: "<", wantOffset: 0},
		{name: "partial name", input: "<root", wantOffset: 0},
		{name: "partial end", input: "</a", wantOffset: 0},
		{name: "open quote", input: `<root attr="x`, wantOffset: 0},
		{name: "after events", input: "<a>text<b", wantOffset: 7, wantEvents: 2},
		{name: "attribute run", input: "<a>\n<b x=1 y=2", wantOffset: 4, wantEvents: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, size := range []int{1, 4096} {
				events, err := readAll(NewTokenizer(strings.NewReader(tt.input), BufferSize(size)))
				if !errors.Is(err, ErrUnterminatedTag) {
					t.Fatalf("size %d: error = %v, want ErrUnterminatedTag", size, err)
				}
				if !errors.Is(err, io.ErrUnexpectedEOF) {
					t.Fatalf("size %d: error = %v, want io.ErrUnexpectedEOF in chain", size, err)
				}
				var syntax *SyntaxError
				if !errors.As(err, &syntax) {
					t.Fatalf("size %d: error type = %T, want *SyntaxError", size, err)
				}
				if syntax.Offset != tt.wantOffset {
					t.Fatalf("size %d: offset = %d, want %d", size, syntax.Offset, tt.wantOffset)
				}
				if len(events) != tt.wantEvents {
					t.Fatalf("size %d: events before error = %v, want %d", size, render(events), tt.wantEvents)
				}
			}
		})
	}
}

func TestTokenizerEmptyName(t *testing.T) {
	for _, input := range []string{"<>", "</>", "< a>", "<//>", "<a></ a>"} {
		_, err := readAll(NewTokenizer(strings.NewReader(input)))
		if !errors.Is(err, ErrEmptyName) {
			t.Fatalf("input %q error = %v, want ErrEmptyName", input, err)
		}
	}
}

func TestTokenizerErrorsAreSticky(t *testing.T) {
	tok := NewTokenizer(strings.NewReader("<a"))
	_, first := tok.Next()
	if first == nil {
		t.Fatalf("Next error = nil, want error")
	}
	for i := 0; i < 3; i++ {
		ev, err := tok.Next()
		if err != first {
			t.Fatalf("Next #%d error = %v, want %v", i, err, first)
		}
		if ev.Kind != KindNone {
			t.Fatalf("Next #%d kind = %v, want None", i, ev.Kind)
		}
	}
}

func TestTokenizerMaxTokenSize(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "<abcd></abcd>", wantErr: false},
		{input: "<abcde>", wantErr: true},
		{input: "</abcde>", wantErr: true},
		{input: "<a>abcd</a>", wantErr: false},
		{input: "<a>  abcd</a>", wantErr: false},
		{input: "<a>abcde</a>", wantErr: true},
		{input: "abcdefgh", wantErr: true},
		{input: "<a>v          </a>", wantErr: false},
		{input: "<a>v\n    </a>", wantErr: false},
		{input: "abc   \n\t  ", wantErr: false},
		{input: "<a>a  b</a>", wantErr: false},
		{input: "<a>ab  cd</a>", wantErr: true},
		{input: "<a>v        x</a>", wantErr: true},
	}
	for _, tt := range tests {
		for _, size := range []int{1, 2, 3, 4096} {
			_, err := readAll(NewTokenizer(strings.NewReader(tt.input), MaxTokenSize(4), BufferSize(size)))
			if tt.wantErr {
				if !errors.Is(err, ErrTokenTooLarge) {
					t.Fatalf("input %q size %d: error = %v, want ErrTokenTooLarge", tt.input, size, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("input %q size %d: error = %v", tt.input, size, err)
			}
		}
	}
}

func TestTokenizerMaxTokenSizeIgnoresTrailingWhitespace(t *testing.T) {
	for _, size := range []int{1, 2, 3, 4096} {
		events := collectEvents(t, "<a>v \n\t   </a><b>x  y   </b>", MaxTokenSize(4), BufferSize(size))
		want := []string{"StartElement(a)", `Text("v")`, "EndElement(a)", "StartElement(b)", `Text("x  y")`, "EndElement(b)"}
		if diff := cmp.Diff(want, render(events)); diff != "" {
			t.Fatalf("size %d events mismatch (-want +got):\n%s", size, diff)
		}
	}
}

func TestTokenizerReaderErrorVerbatim(t *testing.T) {
	errBoom := errors.New("boom")
	tok := NewTokenizer(iotest.ErrReader(errBoom))
	for i := 0; i < 2; i++ {
		_, err := tok.Next()
		if err != errBoom {
			t.Fatalf("Next #%d error = %v, want %v", i, err, errBoom)
		}
	}
}

func TestTokenizerReaderErrorMidToken(t *testing.T) {
	errBoom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("<a>te"), iotest.ErrReader(errBoom))
	events, err := readAll(NewTokenizer(r, BufferSize(2)))
	if err != errBoom {
		t.Fatalf("error = %v, want %v", err, errBoom)
	}
	if len(events) != 1 || events[0].Kind != KindStartElement {
		t.Fatalf("events = %v, want [StartElement(a)]", render(events))
	}
}

func TestTokenizerNilReader(t *testing.T) {
	if _, err := NewTokenizer(nil).Next(); err != errNilReader {
		t.Fatalf("Next error = %v, want %v", err, errNilReader)
	}
	var tok *Tokenizer
	if _, err := tok.Next(); err != errNilReader {
		t.Fatalf("nil Next error = %v, want %v", err, errNilReader)
	}
}

func TestSyntaxErrorFormatting(t *testing.T) {
	err := &SyntaxError{Offset: 12, Err: ErrEmptyName}
	if got, want := err.Error(), "xml syntax error at offset 12: empty element name"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("errors.Is(ErrEmptyName) = false")
	}
	var nilErr *SyntaxError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil SyntaxError not handled")
	}
}
