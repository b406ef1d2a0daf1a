// package config
//
// job configuration, read once at startup from the process environment
// (or a json job file for local runs) and never mutated afterwards
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/baderkha/trip-etl/pkg/conditional"
	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/hashicorp/go-multierror"
)

// environment variables read by Load
const (
	EnvRegion            = "AWS_REGION"
	EnvSourceBucket      = "SOURCE_BUCKET"
	EnvSourceKey         = "SOURCE_KEY"
	EnvDestinationBucket = "DESTINATION_BUCKET"
	EnvDestinationKey    = "DESTINATION_KEY"
	EnvAccessKeyID       = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey   = "AWS_SECRET_ACCESS_KEY"
	EnvLogLevel          = "LOG_LEVEL"
)

var requiredVars = []string{
	EnvRegion,
	EnvSourceBucket,
	EnvSourceKey,
	EnvDestinationBucket,
	EnvDestinationKey,
}

// Config : configuration for the job
type Config struct {
	AWSRegion          string `json:"aws_region"`
	SourceBucket       string `json:"source_bucket"`
	SourceKey          string `json:"source_key"`
	DestinationBucket  string `json:"destination_bucket"`
	DestinationKey     string `json:"destination_key"`
	AWSAccessKeyID     string `json:"aws_access_key_id,omitempty"`
	AWSSecretAccessKey string `json:"aws_secret_access_key,omitempty"`
	LogLevel           string `json:"log_level,omitempty"`
}

// Load : reads the config from the process environment
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom : same as Load with the environment lookup swapped out
func LoadFrom(lookup func(string) (string, bool)) (*Config, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}

	var missing []string
	for _, k := range requiredVars {
		if get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &etlerr.ConfigurationError{
			Msg: "missing required environment variables: " + strings.Join(missing, ", "),
		}
	}

	return &Config{
		AWSRegion:          get(EnvRegion),
		SourceBucket:       get(EnvSourceBucket),
		SourceKey:          get(EnvSourceKey),
		DestinationBucket:  get(EnvDestinationBucket),
		DestinationKey:     get(EnvDestinationKey),
		AWSAccessKeyID:     get(EnvAccessKeyID),
		AWSSecretAccessKey: get(EnvSecretAccessKey),
		LogLevel:           conditional.Coalesce(get(EnvLogLevel), string(LevelInfo)),
	}, nil
}

// LoadJSON : reads the config from a json job file. Required fields are
// left to Validate
func LoadJSON(r io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &etlerr.ConfigurationError{Msg: "could not parse job file", Err: err}
	}
	cfg.LogLevel = conditional.Coalesce(cfg.LogLevel, string(LevelInfo))
	return &cfg, nil
}

// Validate : every required field is set and the log level is a known one.
// All offending fields are reported together
func (c *Config) Validate() error {
	var merr *multierror.Error

	for _, f := range []struct {
		name  string
		value string
	}{
		{"AWS region", c.AWSRegion},
		{"source bucket", c.SourceBucket},
		{"source key", c.SourceKey},
		{"destination bucket", c.DestinationBucket},
		{"destination key", c.DestinationKey},
	} {
		if f.value == "" {
			merr = multierror.Append(merr, fmt.Errorf("%s cannot be empty", f.name))
		}
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr == nil {
		return nil
	}
	merr.ErrorFormat = inlineFormat
	return &etlerr.ConfigurationError{Msg: "invalid configuration", Err: merr}
}

// Level : parsed log level, INFO when none was given
func (c *Config) Level() LogLevel {
	l, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return LevelInfo
	}
	return l
}

// HasStaticCredentials : both halves of the key pair are present
func (c *Config) HasStaticCredentials() bool {
	return c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// String : summary safe to log, never includes credentials
func (c *Config) String() string {
	return fmt.Sprintf("s3://%s/%s -> s3://%s/%s (region %s)",
		c.SourceBucket, c.SourceKey, c.DestinationBucket, c.DestinationKey, c.AWSRegion)
}

func inlineFormat(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
