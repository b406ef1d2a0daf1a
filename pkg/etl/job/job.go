// package job
//
// process level wiring: config -> logger -> storage -> processor, and the
// single place where an error turns into an exit status
package job

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/baderkha/trip-etl/pkg/etl"
	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/baderkha/trip-etl/pkg/etl/logging"
	"github.com/baderkha/trip-etl/pkg/etl/storage"
	"github.com/baderkha/trip-etl/pkg/etl/transform"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// exit statuses, failures are not told apart
const (
	ExitOK      = 0
	ExitFailure = 1
)

// GatewayFactory : builds storage once config and logging exist
type GatewayFactory func(cfg *config.Config, log zerolog.Logger) (storage.Gateway, error)

// Options : what differs between the binaries
type Options struct {
	LoadConfig func() (*config.Config, error)
	Gateway    GatewayFactory
	// Stdout receives the log, Stderr anything that fails before the log exists
	Stdout io.Writer
	Stderr io.Writer
}

// Main : runs the pipeline once and returns the process exit status
func Main(ctx context.Context, opts Options) (code int) {
	var log *zerolog.Logger
	defer func() {
		if r := recover(); r != nil {
			report(log, opts.Stderr, fmt.Errorf("panic: %v", r))
			code = ExitFailure
		}
	}()

	if err := run(ctx, opts, &log); err != nil {
		report(log, opts.Stderr, err)
		return ExitFailure
	}
	return ExitOK
}

func run(ctx context.Context, opts Options, logp **zerolog.Logger) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(opts.Stdout, cfg.Level())
	*logp = &log
	log.Info().Msg("Starting ETL pipeline")
	log.Info().Msgf("Configuration loaded: %s", cfg)

	gateway, err := opts.Gateway(cfg, log)
	if err != nil {
		return etlerr.Phased(etlerr.PhaseInit, err)
	}

	processor := etl.NewProcessor(cfg, gateway, transform.NewTripTransformer(log), log)
	if err := processor.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("ETL pipeline completed successfully")
	return nil
}

// Label : how err is presented to the user
func Label(err error) string {
	var (
		cfgErr *etlerr.ConfigurationError
		etlErr *etlerr.ETLError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "Configuration error"
	case errors.As(err, &etlErr):
		return "ETL error"
	}
	return "Unexpected error"
}

func report(log *zerolog.Logger, stderr io.Writer, err error) {
	if log == nil {
		fmt.Fprintf(stderr, "%s: %v\n", Label(err), err)
		return
	}
	log.Error().Msgf("%s: %v", Label(err), err)
}

// FileConfig : loads the config from a json job file on fsys
func FileConfig(fsys afero.Fs, path string) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		f, err := fsys.Open(path)
		if err != nil {
			return nil, &etlerr.ConfigurationError{Msg: "could not open job file", Err: err}
		}
		defer f.Close()
		return config.LoadJSON(f)
	}
}

// S3 : gateway factory for the real thing
func S3(cfg *config.Config, log zerolog.Logger) (storage.Gateway, error) {
	g, err := storage.NewS3GatewayFromConfig(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return g, nil
}

// Filesystem : gateway factory storing buckets under fsys
func Filesystem(fsys afero.Fs) GatewayFactory {
	return func(_ *config.Config, log zerolog.Logger) (storage.Gateway, error) {
		return storage.NewFsGateway(fsys, log), nil
	}
}
