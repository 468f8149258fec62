// podview decodes fixed-size binary values against a type schema.
//
//	podview --schema types.yaml --type sample 01 00 00 c0 3f
//	echo 0100 | podview --schema types.yaml --type "[2]u8" --endian both
//	podview --schema types.yaml --type mode --zero
//	podview --schema types.yaml -i
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/config"
	"github.com/wippyai/pod-codec/schema"
)

type options struct {
	schemaPath  string
	witPath     string
	typeName    string
	endian      string
	asJSON      bool
	zero        bool
	list        bool
	verbose     bool
	interactive bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("podview", pflag.ContinueOnError)
	flagSet.StringVar(&opts.schemaPath, "schema", "", "path to a YAML type document")
	flagSet.StringVar(&opts.witPath, "wit-json", "", "path to a WIT JSON document (wit-bindgen-go format)")
	flagSet.StringVarP(&opts.typeName, "type", "t", "", "type to decode: a declared name or a reference such as [4]u16")
	flagSet.StringVarP(&opts.endian, "endian", "e", "le", "byte order: le, be or both")
	flagSet.BoolVar(&opts.asJSON, "json", false, "print values as JSON")
	flagSet.BoolVar(&opts.zero, "zero", false, "print the zero value and its encoding instead of decoding input")
	flagSet.BoolVarP(&opts.list, "list", "l", false, "list declared types and exit")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log codec construction to stderr")
	flagSet.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive mode with TUI")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: podview --schema <types.yaml> --type <name> [hex bytes...]")
		fmt.Fprintln(os.Stderr, "       podview --schema <types.yaml> --list")
		fmt.Fprintln(os.Stderr, "       podview --schema <types.yaml> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		podcodec.SetLogger(logger)
		config.SetLogger(logger)
	}

	orders, err := parseEndian(opts.endian)
	if err != nil {
		return err
	}

	s, err := loadSchema(opts.schemaPath, opts.witPath)
	if err != nil {
		return err
	}

	if opts.interactive {
		return runInteractive(s, orders[0])
	}
	if opts.list {
		return listTypes(stdout, s)
	}
	if opts.typeName == "" {
		flagSet.Usage()
		return fmt.Errorf("--type is required")
	}

	codec, err := s.Lookup(opts.typeName)
	if err != nil {
		return err
	}

	if opts.zero {
		return printZero(stdout, opts, codec, orders)
	}

	input, err := readInput(flagSet.Args(), stdin)
	if err != nil {
		return err
	}
	return printDecoded(stdout, opts, s, codec, input, orders)
}

func parseEndian(s string) ([]podcodec.Endian, error) {
	switch strings.ToLower(s) {
	case "le", "little":
		return []podcodec.Endian{podcodec.LittleEndian}, nil
	case "be", "big":
		return []podcodec.Endian{podcodec.BigEndian}, nil
	case "both":
		return []podcodec.Endian{podcodec.LittleEndian, podcodec.BigEndian}, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q (want le, be or both)", s)
	}
}

func loadSchema(schemaPath, witPath string) (*schema.Schema, error) {
	var doc *config.Document
	switch {
	case schemaPath != "" && witPath != "":
		return nil, fmt.Errorf("use either --schema or --wit-json, not both")
	case schemaPath != "":
		d, err := config.Load(schemaPath)
		if err != nil {
			return nil, err
		}
		doc = d
	case witPath != "":
		f, err := os.Open(witPath)
		if err != nil {
			return nil, fmt.Errorf("open WIT document: %w", err)
		}
		defer f.Close()
		d, skipped, err := config.LoadWITJSON(f)
		if err != nil {
			return nil, err
		}
		for _, name := range skipped {
			config.Logger().Info("skipped WIT type without a fixed-size encoding", zap.String("type", name))
		}
		doc = d
	default:
		// Primitive and array references need no declarations.
		doc = &config.Document{Types: map[string]*config.TypeSpec{}}
	}
	return schema.Compile(doc)
}

// readInput takes hex from the arguments, or from stdin when it is piped.
func readInput(args []string, stdin *os.File) ([]byte, error) {
	if len(args) > 0 {
		return parseHex(strings.Join(args, " "))
	}
	if stdin == nil || term.IsTerminal(int(stdin.Fd())) {
		return nil, fmt.Errorf("no input: pass hex bytes as arguments or pipe them on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return parseHex(string(data))
}

func listTypes(w io.Writer, s *schema.Schema) error {
	for _, name := range s.Types() {
		codec, err := s.Codec(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-20s", name)),
			typeStyle.Render(fmt.Sprintf("%-6s", podcodec.KindOf(codec))),
			dimStyle.Render(fmt.Sprintf("%d bytes", codec.Size())))
	}
	return nil
}

func printZero(w io.Writer, opts options, codec podcodec.Codec[any], orders []podcodec.Endian) error {
	zero := codec.Zero()
	for _, order := range orders {
		b, err := podcodec.Marshal(codec, zero, order)
		if err != nil {
			return err
		}
		if opts.asJSON {
			out, err := jsonLine(map[string]any{"order": order.String(), "bytes": formatHex(b), "value": zero})
			if err != nil {
				return err
			}
			fmt.Fprintln(w, out)
			continue
		}
		fmt.Fprintf(w, "%s %s\n  %s\n", headerStyle.Render(order.String()), dimStyle.Render(formatHex(b)), formatValue(zero, true))
	}
	return nil
}

func printDecoded(w io.Writer, opts options, s *schema.Schema, codec podcodec.Codec[any], input []byte, orders []podcodec.Endian) error {
	if extra := len(input) - codec.Size(); extra > 0 && !opts.asJSON {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d trailing bytes ignored", extra)))
	}

	var failed error
	for _, order := range orders {
		v, err := codec.Decode(input, order)
		if opts.asJSON {
			rec := map[string]any{"order": order.String(), "value": v}
			if err != nil {
				rec["error"] = err.Error()
			}
			out, jerr := jsonLine(rec)
			if jerr != nil {
				return jerr
			}
			fmt.Fprintln(w, out)
		} else {
			fmt.Fprintln(w, headerStyle.Render(order.String()))
			if err != nil {
				fmt.Fprintln(w, "  "+errorStyle.Render(err.Error()))
			} else {
				fmt.Fprintln(w, "  "+formatValue(v, true))
			}
		}
		if err != nil {
			failed = fmt.Errorf("decoding %s failed", opts.typeName)
		}
	}

	if !opts.asJSON && failed == nil {
		if layout, err := s.Layout(opts.typeName); err == nil && len(layout) > 0 {
			fmt.Fprint(w, formatLayout(layout))
		}
	}
	return failed
}
