package xmltok

import (
	"strings"
	"testing"
)

const maxTestEvents = 1 << 16

func collectEvents(tb testing.TB, input string, opts ...Options) []Event {
	tb.Helper()
	events, err := readAll(NewTokenizer(strings.NewReader(input), opts...))
	if err != nil {
		tb.Fatalf("Next error = %v", err)
	}
	return events
}

// readAll drains tok up to and including EndOfStream.
func readAll(tok *Tokenizer) ([]Event, error) {
	var events []Event
	for len(events) < maxTestEvents {
		ev, err := tok.Next()
		if err != nil {
			return events, err
		}
		events = append(events, ev)
		if ev.Kind == KindEndOfStream {
			return events, nil
		}
	}
	return events, nil
}

func render(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.String())
	}
	return out
}

func countKinds(events []Event) map[Kind]int {
	counts := make(map[Kind]int)
	for _, ev := range events {
		counts[ev.Kind]++
	}
	return counts
}

func trimWhitespace(data []byte) []byte {
	start := 0
	for start < len(data) && isWhitespace(data[start]) {
		start++
	}
	end := len(data)
	for end > start && isWhitespace(data[end-1]) {
		end--
	}
	return data[start:end]
}
