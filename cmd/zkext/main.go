package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	zkscffi "github.com/wippyai/zksc-ffi"
	"github.com/wippyai/zksc-ffi/config"
	"github.com/wippyai/zksc-ffi/externs"
	"github.com/wippyai/zksc-ffi/value"
	"github.com/wippyai/zksc-ffi/wire"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML runtime configuration")
		list        = flag.Bool("list", false, "List registered externs and exit")
		demo        = flag.Bool("demo", false, "Call every built-in extern with its sample arguments")
		decodeFile  = flag.String("decode", "", "Decode a field-element matrix file to i128")
		encodeFile  = flag.String("encode", "", "Encode an i128 matrix file to field elements")
		outFile     = flag.String("out", "", "Write the decode/encode result as CBOR to this file")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if !*list && !*demo && *decodeFile == "" && *encodeFile == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: zkext [-config file.toml] -list")
		fmt.Fprintln(os.Stderr, "       zkext [-config file.toml] -demo")
		fmt.Fprintln(os.Stderr, "       zkext [-config file.toml] -decode matrix.toml [-out result.cbor]")
		fmt.Fprintln(os.Stderr, "       zkext [-config file.toml] -encode matrix.toml [-out result.cbor]")
		fmt.Fprintln(os.Stderr, "       zkext [-config file.toml] -i  (interactive mode)")
		os.Exit(1)
	}

	rt, logger, err := setup(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	out := newPrinter(os.Stdout)
	switch {
	case *interactive:
		err = runInteractive(rt)
	case *list:
		listExterns(out, rt)
	case *demo:
		err = runDemo(out, rt)
	case *decodeFile != "":
		err = runMatrix(out, rt, *decodeFile, *outFile, true)
	case *encodeFile != "":
		err = runMatrix(out, rt, *encodeFile, *outFile, false)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(configFile string) (*zkscffi.Runtime, *zap.Logger, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, nil, err
		}
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	zkscffi.SetLogger(logger)

	rt, err := zkscffi.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create runtime: %w", err)
	}
	logger.Debug("runtime ready",
		zap.Stringer("domain", rt.Domain()),
		zap.Stringer("modulus", rt.Modulus()),
		zap.Int("externs", len(rt.Registry().Names())))
	return rt, logger, nil
}

func listExterns(out *printer, rt *zkscffi.Runtime) {
	out.title(fmt.Sprintf("Externs (executing in %s)", rt.Domain()))
	for _, name := range rt.Registry().Names() {
		sig, _ := rt.Registry().Describe(name)
		out.signature(sig)
	}
}

func runDemo(out *printer, rt *zkscffi.Runtime) error {
	out.title(fmt.Sprintf("Sample calls (executing in %s)", rt.Domain()))
	failed := 0
	for _, s := range externs.Samples() {
		got, err := rt.Call(s.Name, s.TypeArgs, s.Args...)
		if err != nil {
			out.failure(s.Name, err.Error())
			failed++
			continue
		}
		ok := got.String() == s.Want
		for i, slot := range s.Refs() {
			v := slot.Load()
			if i >= len(s.WantRefs) || v.String() != s.WantRefs[i] {
				ok = false
			}
			v.Release()
		}
		out.call(s, got, ok)
		if !ok {
			failed++
		}
		got.Release()
	}
	if failed > 0 {
		return fmt.Errorf("%d sample calls did not produce the expected result", failed)
	}
	return nil
}

func runMatrix(out *printer, rt *zkscffi.Runtime, path, outFile string, decode bool) error {
	m, err := config.LoadMatrix(path, rt.Config())
	if err != nil {
		return err
	}

	var res value.Value
	if decode {
		res, err = rt.DecodeMatrix(m.Modulus, m.Domain, m.Rows)
	} else {
		res, err = rt.EncodeMatrix(m.Modulus, m.Domain, m.Rows)
	}
	if err != nil {
		return err
	}
	defer res.Release()

	out.matrix(m, res, decode)

	if outFile != "" {
		data, err := wire.Marshal(res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFile, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outFile, err)
		}
		out.note(fmt.Sprintf("wrote %d bytes to %s", len(data), outFile))
	}
	return nil
}
