package xmlwalk

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/xmlpull/pkg/xmltok"
)

func newTokenizer(input string) *xmltok.Tokenizer {
	return xmltok.NewTokenizer(strings.NewReader(input), xmltok.BufferSize(5))
}

func drain(r EventReader) ([]string, error) {
	var out []string
	err := Each(r, func(ev xmltok.Event) error {
		out = append(out, ev.String())
		return nil
	})
	return out, err
}

func TestBalancerSynthesizesSelfClosingEnd(t *testing.T) {
	got, err := drain(NewBalancer(newTokenizer(`<root><a/><b x="1"/><c/></root>`)))
	if err != nil {
		t.Fatalf("drain error = %v", err)
	}
	want := []string{
		"StartElement(root)",
		"StartElement(a/)",
		"EndElement(a)",
		"StartElement(b/)",
		"EndElement(b)",
		"StartElement(c/)",
		"EndElement(c)",
		"EndElement(root)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestBalancerPassesBalancedInput(t *testing.T) {
	input := `<root><item>value</item></root>`
	want, err := drain(newTokenizer(input))
	if err != nil {
		t.Fatalf("drain error = %v", err)
	}
	got, err := drain(NewBalancer(newTokenizer(input)))
	if err != nil {
		t.Fatalf("drain balanced error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestBalancerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "mismatched", input: `<a><b></a></b>`, want: ErrMismatchedEnd},
		{name: "no open element", input: `</a>`, want: ErrUnexpectedEnd},
		{name: "unclosed", input: `<a><b></b>`, want: ErrUnclosed},
		{name: "tokenizer error", input: `<a><b`, want: xmltok.ErrUnterminatedTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBalancer(newTokenizer(tt.input))
			_, err := drain(b)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if _, again := b.Next(); again != err {
				t.Fatalf("second error = %v, want sticky %v", again, err)
			}
		})
	}
}

func TestBalancerUnclosedReportsPath(t *testing.T) {
	_, err := drain(NewBalancer(newTokenizer(`<a><b></b><c>`)))
	if err == nil || !strings.Contains(err.Error(), "/a[1]/c[2]") {
		t.Fatalf("error = %v, want path /a[1]/c[2]", err)
	}
}

func TestBalancerMaxDepth(t *testing.T) {
	b := NewBalancer(newTokenizer(`<a><b><c/></b></a>`))
	b.MaxDepth = 2
	_, err := drain(b)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("error = %v, want ErrDepthLimit", err)
	}
}

func TestBalancerPath(t *testing.T) {
	b := NewBalancer(newTokenizer(`<root><x/><y><z>t</z></y></root>`))
	var paths []string
	err := Each(b, func(ev xmltok.Event) error {
		if ev.Kind == xmltok.KindText {
			paths = append(paths, b.Path(nil).String())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Each error = %v", err)
	}
	if diff := cmp.Diff([]string{"/root[1]/y[2]/z[1]"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if b.Depth() != 0 {
		t.Fatalf("depth at end = %d, want 0", b.Depth())
	}
	if _, ok := b.Top(); ok {
		t.Fatalf("Top at end reports an open element")
	}
}

func TestBalancerSynthesizedEndOwnsName(t *testing.T) {
	b := NewBalancer(newTokenizer(`<a/>`))
	start, err := b.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if b.Depth() != 1 {
		t.Fatalf("depth after self-closing start = %d, want 1", b.Depth())
	}
	end, err := b.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	start.Name[0] = 'z'
	if string(end.Name) != "a" {
		t.Fatalf("synthesized name = %q, want a", end.Name)
	}
	if b.Depth() != 0 {
		t.Fatalf("depth after synthesized end = %d, want 0", b.Depth())
	}
}

func TestPathAppendTo(t *testing.T) {
	p := Path{{Name: "a", Index: 1}, {Name: "b", Index: 3}}
	if got := string(p.AppendTo([]byte("doc:"))); got != "doc:/a[1]/b[3]" {
		t.Fatalf("AppendTo = %q", got)
	}
	if got := (Path{}).String(); got != "" {
		t.Fatalf("empty path = %q, want empty", got)
	}
}
