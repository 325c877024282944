// Package main is the dmview display pipeline viewer. It renders a
// file through the fold/tab/wrap/block stages, either as an annotated
// dump on stdout or interactively in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/00676/displaymap/internal/config"
	"github.com/00676/displaymap/internal/display"
	"github.com/00676/displaymap/internal/display/block"
	"github.com/00676/displaymap/internal/display/coords"
	"github.com/00676/displaymap/internal/display/style"
	"github.com/00676/displaymap/internal/engine/buffer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ConfigPath string
	TabWidth   uint
	WrapWidth  uint
	Mark       string
	TUI        bool
	LogLevel   string
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.LogLevel)
		return 1
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		return 1
	}
	if opts.TabWidth > 0 {
		settings.TabWidth = uint32(opts.TabWidth)
	}
	if opts.WrapWidth > 0 {
		settings.WrapWidth = uint32(opts.WrapWidth)
	}
	log.Debug().Stringer("settings", settings).Msg("configured")

	buf, err := loadBuffer(opts.File)
	if err != nil {
		log.Error().Err(err).Msg("reading file")
		return 1
	}

	m := display.NewMap(buf, settings.TabWidth, settings.WrapWidth)
	theme := settings.BuildTheme()

	if opts.Mark != "" {
		ids := markLines(m, buf, opts.Mark, theme)
		log.Info().Int("blocks", len(ids)).Str("pattern", opts.Mark).Msg("marked lines")
	}

	if opts.TUI {
		v := &viewer{
			log:        log,
			m:          m,
			theme:      theme,
			settings:   settings,
			configPath: opts.ConfigPath,
		}
		if err := v.run(); err != nil {
			log.Error().Err(err).Msg("viewer failed")
			return 1
		}
		return 0
	}

	dump(os.Stdout, m.Snapshot())
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to settings file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.UintVar(&opts.TabWidth, "tab", 0, "Tab width override")
	flag.UintVar(&opts.WrapWidth, "wrap", 0, "Soft-wrap width override")
	flag.StringVar(&opts.Mark, "mark", "", "Insert a header block above lines containing this text")
	flag.BoolVar(&opts.TUI, "tui", false, "Interactive terminal viewer")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dmview - display pipeline viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dmview [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dmview file.go                 Dump the display rows\n")
		fmt.Fprintf(os.Stderr, "  dmview -wrap 80 file.go        Soft-wrap at 80 cells\n")
		fmt.Fprintf(os.Stderr, "  dmview -mark TODO file.go      Flag TODO lines with header blocks\n")
		fmt.Fprintf(os.Stderr, "  dmview -tui -c dm.toml file.go Interactive view with live config\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("dmview %s (%s)\n", version, commit)
		os.Exit(0)
	}

	opts.File = flag.Arg(0)
	return opts
}

func loadBuffer(path string) (*buffer.Buffer, error) {
	if path == "" {
		return buffer.FromString(sampleText), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return buffer.FromString(string(data)), nil
}

// markLines inserts a dimmed header block above every buffer line that
// contains the pattern.
func markLines(m *display.Map, buf *buffer.Buffer, pattern string, theme *style.Theme) []block.ID {
	snap := buf.Snapshot()
	var props []block.Properties
	for row := uint32(0); row < snap.LineCount(); row++ {
		line := snap.LineText(row)
		col := strings.Index(line, pattern)
		if col < 0 {
			continue
		}
		header := "^ " + pattern
		props = append(props, block.Properties{
			Position:    coords.Point{Row: row, Column: uint32(col)},
			Text:        header,
			Source:      style.Static(style.Run{Len: uint32(len(header)), Style: theme.BlockText.Bold()}),
			Disposition: block.Above,
		})
	}
	if len(props) == 0 {
		return nil
	}
	return m.InsertBlocks(props...)
}

// dump prints every display row with a gutter tag: the buffer line
// number, "~" for soft-wrap continuations, "*" for block rows.
func dump(w *os.File, snap *display.Snapshot) {
	row := uint32(0)
	for it := snap.RowInfos(0); it.Next(); row++ {
		var gutter string
		switch info := it.Info(); info.Kind {
		case display.RowBuffer:
			gutter = fmt.Sprintf("%4d", info.BufferRow+1)
		case display.RowWrap:
			gutter = "   ~"
		case display.RowBlock:
			gutter = "   *"
		}
		fmt.Fprintf(w, "%s | %s\n", gutter, snap.Line(row))
	}
}

const sampleText = "dmview sample\n\tindented line\nA long line that soft-wraps once a wrap width is configured.\nTODO: pass a file argument\nlast line"
