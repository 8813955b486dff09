package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/jacoelho/xmlpull/internal/source"
	"github.com/jacoelho/xmlpull/pkg/xmltok"
	"github.com/jacoelho/xmlpull/pkg/xmlwalk"
)

var errFilesFailed = errors.New("one or more files failed")

// environment carries what every command needs after flag parsing.
type environment struct {
	cfg     *config
	logger  log.Logger
	metrics *source.Metrics
	stdout  io.Writer
}

// countingReader counts events produced by a tokenizer.
type countingReader struct {
	r       xmlwalk.EventReader
	metrics *source.Metrics
}

func (m *countingReader) Next() (xmltok.Event, error) {
	ev, err := m.r.Next()
	if err == nil && ev.Kind != xmltok.KindEndOfStream {
		m.metrics.ObserveEvent(ev.Kind.String())
	}
	return ev, err
}

// eachFile opens every path, tokenizes it and hands the reader to fn.
// Failures are logged per file; the returned error only reports that at
// least one file failed.
func (env *environment) eachFile(paths []string, fn func(path string, tok *xmltok.Tokenizer, r xmlwalk.EventReader) error) error {
	failed := 0
	for _, path := range paths {
		if err := env.processFile(path, fn); err != nil {
			failed++
			env.metrics.ObserveError()
			level.Error(env.logger).Log("msg", "failed to tokenize", "file", path, "err", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, failed, len(paths))
	}
	return nil
}

func (env *environment) processFile(path string, fn func(string, *xmltok.Tokenizer, xmlwalk.EventReader) error) (err error) {
	rc, err := source.Open(path, env.cfg.sourceConfig())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	start := time.Now()
	tok := xmltok.NewTokenizer(source.Meter(rc, env.metrics), env.cfg.tokenizerOptions())
	level.Debug(env.logger).Log("msg", "tokenizing", "file", path, "buffer_size", env.cfg.bufferSize.String())
	if err := fn(path, tok, &countingReader{r: tok, metrics: env.metrics}); err != nil {
		return err
	}
	level.Debug(env.logger).Log("msg", "tokenized", "file", path, "bytes", tok.Offset(), "duration", time.Since(start))
	return nil
}

// eventsCommand prints every event of each file.
type eventsCommand struct {
	cmd      *kingpin.CmdClause
	files    *[]string
	format   *string
	balanced *bool
}

func addEventsCommand(app *kingpin.Application) *eventsCommand {
	c := &eventsCommand{}
	c.cmd = app.Command("events", "Print the event stream of each file.")
	c.format = c.cmd.Flag("format", "Output format.").Default(formatText).Enum(formatText, formatJSON)
	c.balanced = c.cmd.Flag("balanced", "Synthesize end events for self-closing tags and check tag matching.").Bool()
	c.files = c.cmd.Arg("file", "Files to read, - for stdin.").Required().Strings()
	return c
}

func (c *eventsCommand) run(env *environment) error {
	printer := newEventPrinter(env.stdout, *c.format, len(*c.files) > 1)
	return env.eachFile(*c.files, func(path string, _ *xmltok.Tokenizer, r xmlwalk.EventReader) error {
		if *c.balanced {
			r = xmlwalk.NewBalancer(r)
		}
		return xmlwalk.Each(r, func(ev xmltok.Event) error {
			return printer.print(path, ev)
		})
	})
}

// textCommand prints the text directly inside elements with a given name.
type textCommand struct {
	cmd     *kingpin.CmdClause
	files   *[]string
	element *string
}

func addTextCommand(app *kingpin.Application) *textCommand {
	c := &textCommand{}
	c.cmd = app.Command("text", "Print the text of every element with the given name.")
	c.element = c.cmd.Flag("element", "Element name to extract.").Short('e').Required().String()
	c.files = c.cmd.Arg("file", "Files to read, - for stdin.").Required().Strings()
	return c
}

func (c *textCommand) run(env *environment) error {
	return env.eachFile(*c.files, func(_ string, _ *xmltok.Tokenizer, r xmlwalk.EventReader) error {
		texts, err := xmlwalk.CollectText(r, *c.element)
		if err != nil {
			return err
		}
		for _, text := range texts {
			if _, err := fmt.Fprintln(env.stdout, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// statsCommand prints event statistics for each file.
type statsCommand struct {
	cmd   *kingpin.CmdClause
	files *[]string
}

func addStatsCommand(app *kingpin.Application) *statsCommand {
	c := &statsCommand{}
	c.cmd = app.Command("stats", "Print event statistics for each file.")
	c.files = c.cmd.Arg("file", "Files to read, - for stdin.").Required().Strings()
	return c
}

func (c *statsCommand) run(env *environment) error {
	bold := color.New(color.Bold)
	return env.eachFile(*c.files, func(path string, tok *xmltok.Tokenizer, r xmlwalk.EventReader) error {
		stats, err := xmlwalk.Count(r)
		if err != nil {
			return err
		}
		if _, err := bold.Fprintf(env.stdout, "%s:\n", path); err != nil {
			return err
		}
		_, err = fmt.Fprintf(env.stdout,
			"\tsize: %v, events: %d, start: %d, end: %d, self-closing: %d, text: %d (%v), max depth: %d\n",
			humanize.Bytes(uint64(tok.Offset())),
			stats.Events(),
			stats.StartElements,
			stats.EndElements,
			stats.SelfClosing,
			stats.Texts,
			humanize.Bytes(uint64(stats.TextBytes)),
			stats.MaxDepth,
		)
		return err
	})
}
