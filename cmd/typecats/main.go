// Command typecats structures a JSON document into one of the example
// organisation records and prints it back, unstructured.
//
//	typecats [-config file] [-type organization|metadata|claims] [-strip] [-basic] [-debug] [-metrics] [file]
//
// The document is read from stdin when no file is given. Settings come from
// the config file (YAML or TOML), a .env file and TYPECATS_* variables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"typecats/cats"
	"typecats/config"
	"typecats/examples/orgs"
	"typecats/metrics"
)

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	config string
	typ    string
	strip  bool
	basic  bool
	debug   bool
	metrics bool
	input   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("typecats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "YAML or TOML config file")
	fs.StringVar(&o.typ, "type", "organization", "record to structure: organization, metadata or claims")
	fs.BoolVar(&o.strip, "strip", false, "leave fields holding their default out of the output")
	fs.BoolVar(&o.basic, "basic", false, "stop at the first failure instead of collecting all")
	fs.BoolVar(&o.debug, "debug", false, "dump the structured value to stderr")
	fs.BoolVar(&o.metrics, "metrics", false, "print the failure counters to stderr when done")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch o.typ {
	case "organization", "metadata", "claims":
	default:
		return o, fmt.Errorf("%w: unknown type %q", errUsage, o.typ)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		o.input = fs.Arg(0)
	default:
		return o, fmt.Errorf("%w: at most one input file", errUsage)
	}

	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}

		return 2
	}

	cfg, err := config.LoadEnv(o.config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.basic {
		cfg.DetailedValidation = false
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cats.SetLogger(logger)
	defer cats.SetLogger(nil)

	opts, err := cfg.ConverterOptions()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := orgs.Use(cats.NewConverter(opts...)); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.metrics {
		reg := prometheus.NewRegistry()
		cats.SetFailureHook(metrics.NewFailureHook(reg, cats.DefaultRegistry().LogFailure))

		defer writeMetrics(stderr, reg)
	}

	defer cats.SetFailureHook(nil)

	data, err := readInput(o.input, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(stderr, "failed to parse input: %v\n", err)
		return 2
	}

	out, err := structure(o, doc, stderr)
	if err != nil {
		logger.Debug("structuring failed", "error", err)
		return 1
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout, string(encoded))

	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	return data, nil
}

func structure(o options, doc any, stderr io.Writer) (map[string]any, error) {
	var strip []cats.UnstrucOption
	if o.strip {
		strip = append(strip, cats.WithStripDefaults())
	}

	switch o.typ {
	case "organization":
		return roundTrip(orgs.Organizations, doc, o.debug, stderr, strip)
	case "metadata":
		return roundTrip(orgs.Metadata, doc, o.debug, stderr, strip)
	default:
		return roundTrip(orgs.Claims, doc, o.debug, stderr, strip)
	}
}

func roundTrip[T any](cat *cats.Cat[T], doc any, debug bool, stderr io.Writer, opts []cats.UnstrucOption) (map[string]any, error) {
	v, err := cat.Struc(doc)
	if err != nil {
		return nil, err
	}

	if debug {
		spew.Fdump(stderr, v)
	}

	return cat.Unstruc(v, opts...), nil
}

// writeMetrics prints every sample of g as name{labels} value.
func writeMetrics(w io.Writer, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}

			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
}
