package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/didi/symoff/internal/buildinfo"
	"github.com/didi/symoff/internal/log"
	"github.com/didi/symoff/pkg/elf"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Flags flags
type Flags struct {
	configFile  string
	jsonOutput  bool
	batch       bool
	version     bool
	lock        bool
	demangle    bool
	fileOffset  bool
	concurrency int
	logLevel    string
}

const usage = `usage:
	symoff [flags] <path> <symbol>...
	symoff [flags] -batch <path>:<symbol>[,<symbol>...]...
`

func parseFlags(args []string, stderr io.Writer) (*Flags, *flag.FlagSet, error) {
	flags := &Flags{}
	fs := flag.NewFlagSet("symoff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&flags.configFile, "c", "", "config file path")
	fs.BoolVar(&flags.jsonOutput, "json", false, "print results as json")
	fs.BoolVar(&flags.batch, "batch", false, "arguments are <path>:<symbol>,... pairs")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")
	fs.BoolVar(&flags.lock, "lock", false, "hold a shared lock on the file while reading")
	fs.BoolVar(&flags.demangle, "demangle", false, "also match demangled symbol names")
	fs.BoolVar(&flags.fileOffset, "file-offset", false, "print file offsets instead of symbol values")
	fs.IntVar(&flags.concurrency, "concurrency", 4, "files resolved at once in batch mode")
	fs.StringVar(&flags.logLevel, "log-level", "info", "log level")
	err := fs.Parse(args)
	return flags, fs, err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line. extra options are applied after the
// configured ones.
func run(args []string, stdout, stderr io.Writer, extra ...elf.Option) int {
	flags, fs, err := parseFlags(args, stderr)
	if err != nil {
		return 1
	}

	if flags.version {
		fmt.Fprintln(stdout, "Version:", buildinfo.Version)
		fmt.Fprintln(stdout, "Git commit:", buildinfo.CommitID)
		fmt.Fprintln(stdout, "Build time:", buildinfo.BuildTime)
		return 0
	}

	reqs, err := parseRequests(fs.Args(), flags.batch)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 1
	}

	cfg, err := loadConfig(flags.configFile, fs)
	if err != nil {
		fmt.Fprintln(stderr, "load config:", err)
		return 1
	}
	err = log.InitLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, "init logger:", err)
		return 1
	}

	opts := []elf.Option{
		elf.WithLogger(log.G()),
		elf.WithSharedLock(cfg.Lock),
		elf.WithDemangle(cfg.Demangle),
		elf.WithFileOffset(cfg.FileOffset),
		elf.WithConcurrency(cfg.Concurrency),
	}
	opts = append(opts, extra...)

	if log.G().GetLevel() <= zerolog.DebugLevel {
		for _, req := range reqs {
			gover, err := elf.ParseGoVersion(req.Path, opts...)
			if err == nil {
				log.Debug().Str("path", req.Path).Int("gover", gover).Msg("go binary")
			}
		}
	}

	results, err := elf.ResolveAll(context.Background(), reqs, opts...)
	if err != nil {
		log.Error().Err(err).Msg("resolve failed")
		return 1
	}

	code := 0
	for _, res := range results {
		switch {
		case res.Err == nil:
		case errors.Is(res.Err, elf.ErrClose):
			log.Warn().Err(res.Err).Str("path", res.Path).Msg("results kept")
		default:
			log.Error().Err(res.Err).Str("path", res.Path).Msg("resolve failed")
			code = 1
		}
	}

	if flags.jsonOutput {
		err = writeJSON(stdout, results, flags.batch)
	} else {
		err = writeText(stdout, results, flags.batch)
	}
	if err != nil {
		log.Error().Err(err).Msg("write output")
		return 1
	}
	return code
}

func parseRequests(args []string, batch bool) ([]elf.Request, error) {
	if !batch {
		if len(args) < 2 {
			return nil, errors.New("need a path and at least one symbol")
		}
		return []elf.Request{{Path: args[0], Names: args[1:]}}, nil
	}

	if len(args) == 0 {
		return nil, errors.New("need at least one <path>:<symbol> pair")
	}
	reqs := make([]elf.Request, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndexByte(arg, ':')
		if i <= 0 || i == len(arg)-1 {
			return nil, errors.Errorf("bad batch argument %q", arg)
		}
		reqs = append(reqs, elf.Request{Path: arg[:i], Names: strings.Split(arg[i+1:], ",")})
	}
	return reqs, nil
}

func writeText(w io.Writer, results []elf.Result, batch bool) error {
	for _, res := range results {
		if res.Offsets == nil {
			continue
		}
		if batch {
			if _, err := fmt.Fprintf(w, "%s:\n", res.Path); err != nil {
				return err
			}
		}
		for _, off := range res.Offsets {
			var err error
			if off.Found {
				_, err = fmt.Fprintf(w, "%016x  %s\n", off.Value, off.Name)
			} else {
				_, err = fmt.Fprintf(w, "%-16s  %s\n", "<not found>", off.Name)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonResult struct {
	Path    string      `json:"path"`
	Offsets elf.Offsets `json:"offsets"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w io.Writer, results []elf.Result, batch bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if !batch {
		return enc.Encode(results[0].Offsets)
	}

	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Offsets: res.Offsets}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out = append(out, jr)
	}
	return enc.Encode(out)
}
