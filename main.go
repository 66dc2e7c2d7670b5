// Command morphoviewer evaluates a shape script and writes the per-part
// render data (unwrapped vertices, normals, curvature and orientation
// fields) as JSON.
//
// Usage:
//
//	morphoviewer [-config file.toml] [-o out.json] script.morpho
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Nelarius/Morphoviewer/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("morphoviewer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "TOML configuration file")
	outPath := fs.String("o", "", "write JSON here instead of stdout")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: morphoviewer [-config file.toml] [-o out.json] script.morpho")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		logger.Error("read script", "err", err)
		return 1
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("init", "err", err)
		return 1
	}
	result := app.Evaluate(string(source))
	logger.Info("evaluated", "script", fs.Arg(0), "result", result.String())

	if err := writeResult(*outPath, stdout, result); err != nil {
		logger.Error("write output", "err", err)
		return 1
	}

	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

// writeResult encodes result as JSON to path, or to stdout when path is
// empty. A file that fails to close counts as a failed write.
func writeResult(path string, stdout io.Writer, result ViewResult) (err error) {
	if path == "" {
		return json.NewEncoder(stdout).Encode(result)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return json.NewEncoder(f).Encode(result)
}
