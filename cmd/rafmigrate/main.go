// Command rafmigrate upgrades a recording archive to the current schema
// version, in place or onto a copy:
//
//	$ rafmigrate recordings.raf
//	$ rafmigrate -copy upgraded.raf -rate 20000 recordings.raf
//
// The archive must not be open anywhere else while the migration runs.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/auklab/raf/errors"
	"github.com/auklab/raf/migration"
)

func main() {
	fl := flag.NewFlagSet("rafmigrate", flag.ExitOnError)
	copyTo := fl.String("copy", "", "Write a byte-for-byte copy of the archive to this path and migrate the copy, leaving the original untouched.")
	rate := fl.Float64("rate", 0, "Fallback sampling rate in Hz for datasets measured in raw samples that carry no rate of their own.")
	paramsFile := fl.String("params", "", "YAML mapping of additional step parameters. Explicit flags take precedence.")
	quiet := fl.Bool("q", false, "Log warnings and errors only.")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <archive>\n\nUpgrade a recording archive to the current schema version.\n\n", os.Args[0])
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() != 1 {
		fl.Usage()
		os.Exit(2)
	}

	log, err := newLogger(*quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot setup logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	params, err := loadParams(*paramsFile)
	if err != nil {
		log.Error("cannot load parameters", zap.String("file", *paramsFile), zap.Error(err))
		os.Exit(1)
	}
	if *rate != 0 {
		params[migration.SamplingRateParam] = *rate
	}

	v, err := migration.MigrateFile(fl.Arg(0), *copyTo, params, log)
	switch {
	case err == nil:
		log.Info("archive migrated", zap.String("version", v.String()))
	case errors.ErrAlreadyCurrent.Is(err):
		log.Info("archive is already current", zap.String("version", v.String()))
	default:
		log.Error("migration failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(quiet bool) (*zap.Logger, error) {
	conf := zap.NewDevelopmentConfig()
	if quiet {
		conf.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return conf.Build()
}

// loadParams reads the optional step parameter file, a flat YAML mapping,
// e.g. "sampling_rate: 20000".
func loadParams(path string) (migration.Params, error) {
	params := migration.Params{}
	if path == "" {
		return params, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	return params, nil
}
