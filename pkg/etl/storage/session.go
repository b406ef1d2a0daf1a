package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/rs/zerolog"
)

// CredentialSource : decides how the session finds credentials
type CredentialSource func(c *aws.Config)

// StaticCredentials : fixed key pair, no session token
func StaticCredentials(accessKeyID string, secretAccessKey string) CredentialSource {
	return func(c *aws.Config) {
		c.Credentials = credentials.NewStaticCredentials(accessKeyID, secretAccessKey, "")
	}
}

// AmbientCredentials : leaves resolution to the sdk default chain
// (env, shared config, instance / task role)
func AmbientCredentials() CredentialSource {
	return func(*aws.Config) {}
}

// SourceFor : static credentials when the config carries a full key pair
func SourceFor(cfg *config.Config) CredentialSource {
	if cfg.HasStaticCredentials() {
		return StaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	}
	return AmbientCredentials()
}

// NewSession : aws session for region using creds
func NewSession(region string, creds CredentialSource) (*session.Session, error) {
	c := aws.NewConfig().WithRegion(region)
	creds(c)
	return session.NewSession(c)
}

// NewS3GatewayFromConfig : session + client + gateway in one go
func NewS3GatewayFromConfig(cfg *config.Config, log zerolog.Logger) (*S3Gateway, error) {
	sess, err := NewSession(cfg.AWSRegion, SourceFor(cfg))
	if err != nil {
		return nil, err
	}
	g := NewS3Gateway(s3.New(sess), log)
	g.log.Info().Str("region", cfg.AWSRegion).Msgf("S3 gateway initialized for region: %s", cfg.AWSRegion)
	return g, nil
}
