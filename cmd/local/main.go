package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baderkha/trip-etl/pkg/conditional"
	"github.com/baderkha/trip-etl/pkg/etl/job"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const exitInterrupted = 130

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		jobFile  string
		writeDir string
	)
	cmd := &cobra.Command{
		Use:   "local",
		Short: "run the trip etl against a local directory instead of s3",
		Long: `Runs the pipeline with buckets mapped to directories under --write-dir.
The job file holds the same settings the s3 runner reads from the environment.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			startTime := time.Now()
			*exitCode = job.Main(ctx, job.Options{
				LoadConfig: job.FileConfig(afero.NewOsFs(), jobFile),
				Gateway:    job.Filesystem(afero.NewBasePathFs(afero.NewOsFs(), writeDir)),
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			if *exitCode = exitStatus(*exitCode, ctx.Err() != nil); *exitCode == exitInterrupted {
				fmt.Fprintln(cmd.ErrOrStderr(), "Interrupt received. Stopped.")
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Time taken: %s\n", time.Since(startTime))
		},
	}
	cmd.Flags().StringVar(&jobFile, "job", "job.json", "path to the json job file")
	cmd.Flags().StringVar(&writeDir, "write-dir",
		conditional.Ternary(os.Getenv("WRITE_DIR") != "", os.Getenv("WRITE_DIR"), "./tmp"),
		"directory holding one sub directory per bucket")
	return cmd
}

// exitStatus : an interrupt only changes the status of a run that failed
func exitStatus(code int, interrupted bool) int {
	if interrupted && code != job.ExitOK {
		return exitInterrupted
	}
	return code
}

func main() {
	exitCode := job.ExitOK
	if err := newRootCmd(&exitCode).ExecuteContext(context.Background()); err != nil {
		exitCode = job.ExitFailure
	}
	os.Exit(exitCode)
}
