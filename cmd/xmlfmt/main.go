package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/advaoptical/morexml"
	xmlerrors "github.com/advaoptical/morexml/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	check := fs.Bool("check", false, "only check well-formedness, print nothing on success")
	pathExpr := fs.String("path", "", "print subtrees matching a path expression")
	xpathOnly := fs.Bool("xpath", false, "print the XPath rendering of --path and exit")
	configPath := fs.String("config", "", "TOML config with namespace bindings and indent")
	verbose := fs.Bool("verbose", false, "enable debug diagnostics")
	cpuProfilePath := fs.String("cpuprofile", "", "write CPU profile to file")
	memProfilePath := fs.String("memprofile", "", "write memory profile to file")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <document.xml>\n\n", fs.Name())
		fmt.Fprintln(stderr, "Pretty-prints, checks, and queries XML documents.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(stderr, *verbose)

	if *xpathOnly && *pathExpr == "" {
		fmt.Fprintln(stderr, "error: --xpath requires --path")
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("config")
		return 1
	}
	logger.Debug().Str("config", *configPath).Str("indent", cfg.indent).Msg("configured")

	var path *morexml.Path
	if *pathExpr != "" {
		path, err = morexml.ParsePath(*pathExpr, morexml.NS(cfg.namespaces))
		if err != nil {
			logger.Error().Err(err).Str("path", *pathExpr).Msg("invalid path expression")
			return 2
		}
	}

	if *xpathOnly {
		xpath, err := path.XPath()
		if err != nil {
			logger.Error().Err(err).Str("path", *pathExpr).Msg("not renderable as XPath")
			return 1
		}
		if _, err := fmt.Fprintln(stdout, xpath); err != nil {
			return 1
		}
		return 0
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		fmt.Fprintln(stderr, "error: exactly one XML file argument is required")
		fs.Usage()
		return 2
	}
	xmlPath := remaining[0]

	stopProfiles, err := startProfiles(*cpuProfilePath, *memProfilePath, logger)
	if err != nil {
		logger.Error().Err(err).Msg("profiling")
		return 1
	}
	defer stopProfiles()

	tree, err := morexml.ParseFile(xmlPath)
	if err != nil {
		if parseErr, ok := xmlerrors.AsParse(err); ok {
			fmt.Fprintf(stderr, "%s: %s\n", xmlPath, parseErr.Error())
			fmt.Fprintf(stderr, "%s fails to parse\n", xmlPath)
			return 1
		}
		logger.Error().Err(err).Str("file", xmlPath).Msg("reading document")
		return 1
	}

	switch {
	case *check:
		if _, err := fmt.Fprintf(stdout, "%s parses\n", xmlPath); err != nil {
			return 1
		}
		return 0

	case path != nil:
		matches, err := path.Find(tree)
		if err != nil {
			logger.Error().Err(err).Str("path", *pathExpr).Msg("evaluating path")
			return 1
		}
		logger.Debug().Int("matches", len(matches)).Str("path", *pathExpr).Msg("evaluated")
		for _, match := range matches {
			if err := match.WriteIndent(stdout, "", cfg.indent); err != nil {
				return 1
			}
		}
		if len(matches) == 0 {
			return 1
		}
		return 0

	default:
		if err := tree.WriteIndent(stdout, "", cfg.indent); err != nil {
			return 1
		}
		return 0
	}
}

func newLogger(stderr io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// startProfiles starts CPU profiling when cpuPath is set and returns a
// teardown that stops it and dumps a heap profile when memPath is set.
// Teardown failures are logged rather than returned, since they happen on
// the way out of the run.
func startProfiles(cpuPath, memPath string, logger zerolog.Logger) (func(), error) {
	var cpuFile *os.File
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fmt.Errorf("create cpu profile %s: %w", cpuPath, err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start cpu profile %s: %w", cpuPath, err)
		}
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			if err := cpuFile.Close(); err != nil {
				logger.Error().Err(err).Str("file", cpuPath).Msg("closing CPU profile")
			}
		}
		if memPath != "" {
			if err := dumpHeapProfile(memPath); err != nil {
				logger.Error().Err(err).Str("file", memPath).Msg("writing memory profile")
			}
		}
	}, nil
}

func dumpHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	err = pprof.WriteHeapProfile(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	return nil
}
