package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/c2h5oh/datasize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacoelho/xmlpull/internal/source"
	"github.com/jacoelho/xmlpull/pkg/xmltok"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// config holds the flags shared by all commands.
type config struct {
	compression    string
	encoding       string
	logLevel       string
	metricsFile    string
	cpuProfilePath string
	memProfilePath string
	bufferSize     datasize.ByteSize
	maxTokenSize   datasize.ByteSize
}

func (c *config) registerFlags(app *kingpin.Application) {
	app.Flag("buffer-size", "Read window capacity, e.g. 8B or 64KB.").
		Default("4KB").SetValue(&byteSizeValue{size: &c.bufferSize, max: maxSizeFlag})
	app.Flag("max-token-size", "Largest element name or text run, 0 for no limit.").
		Default("0").SetValue(&byteSizeValue{size: &c.maxTokenSize, max: maxSizeFlag})
	app.Flag("compression", "Input compression.").
		Default(string(source.CompressionAuto)).EnumVar(&c.compression, source.Compressions...)
	app.Flag("encoding", "IANA charset of the input, decoded to UTF-8.").
		StringVar(&c.encoding)
	app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("info").EnumVar(&c.logLevel, "debug", "info", "warn", "error")
	app.Flag("metrics.textfile", "Write Prometheus metrics in text format to this file on exit.").
		StringVar(&c.metricsFile)
	app.Flag("cpuprofile", "Write CPU profile to file.").StringVar(&c.cpuProfilePath)
	app.Flag("memprofile", "Write memory profile to file.").StringVar(&c.memProfilePath)
}

func (c *config) sourceConfig() source.Config {
	return source.Config{
		Compression: source.Compression(c.compression),
		Encoding:    c.encoding,
	}
}

func (c *config) tokenizerOptions() xmltok.Options {
	return xmltok.JoinOptions(
		xmltok.BufferSize(int(c.bufferSize.Bytes())),
		xmltok.MaxTokenSize(int(c.maxTokenSize.Bytes())),
	)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("xmltok", "Streams XML documents as start, end and text events with bounded memory.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	// kingpin also terminates after printing usage for a missing command,
	// so only an explicit --help counts as success.
	helpRequested := false
	app.Terminate(func(int) {})
	app.HelpFlag.PreAction(func(*kingpin.ParseContext) error {
		helpRequested = true
		return nil
	})

	cfg := &config{}
	cfg.registerFlags(app)
	events := addEventsCommand(app)
	text := addTextCommand(app)
	stats := addStatsCommand(app)

	selected, err := app.Parse(args)
	if helpRequested {
		return 0
	}
	if err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 2
	}

	logger := newLogger(stderr, cfg.logLevel)
	reg := prometheus.NewRegistry()
	env := &environment{
		cfg:     cfg,
		logger:  logger,
		metrics: source.NewMetrics(reg),
		stdout:  stdout,
	}

	prof := &profiler{cpuPath: cfg.cpuProfilePath, memPath: cfg.memProfilePath}
	if err := prof.start(); err != nil {
		level.Error(logger).Log("msg", "error starting profiler", "err", err)
		return 1
	}
	defer func() {
		if err := prof.stop(); err != nil {
			level.Error(logger).Log("msg", "error writing profiles", "err", err)
		}
	}()

	switch selected {
	case events.cmd.FullCommand():
		err = events.run(env)
	case text.cmd.FullCommand():
		err = text.run(env)
	case stats.cmd.FullCommand():
		err = stats.run(env)
	default:
		err = fmt.Errorf("unknown command %q", selected)
		level.Error(logger).Log("msg", "no command selected", "err", err)
	}

	if cfg.metricsFile != "" {
		if writeErr := prometheus.WriteToTextfile(cfg.metricsFile, reg); writeErr != nil {
			level.Error(logger).Log("msg", "error writing metrics", "file", cfg.metricsFile, "err", writeErr)
			return 1
		}
	}
	if err != nil {
		return 1
	}
	return 0
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// maxSizeFlag is the largest value accepted by the size flags.
const maxSizeFlag = datasize.GB

// byteSizeValue adapts datasize.ByteSize to kingpin.Value.
type byteSizeValue struct {
	size *datasize.ByteSize
	max  datasize.ByteSize
}

func (v *byteSizeValue) Set(s string) error {
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	if v.max > 0 && size > v.max {
		return fmt.Errorf("size %s exceeds limit of %s", size.HR(), v.max.HR())
	}
	*v.size = size
	return nil
}

func (v *byteSizeValue) String() string {
	return v.size.String()
}
