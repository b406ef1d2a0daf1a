package main

import (
	"context"
	"os"

	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/baderkha/trip-etl/pkg/etl/job"
)

func main() {
	os.Exit(job.Main(context.Background(), job.Options{
		LoadConfig: config.Load,
		Gateway:    job.S3,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}))
}
