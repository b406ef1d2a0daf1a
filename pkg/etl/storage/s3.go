package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/rs/zerolog"
)

// S3Gateway : Gateway over the s3 api. How credentials were resolved is
// settled before the client gets here, see NewSession
type S3Gateway struct {
	api s3iface.S3API
	log zerolog.Logger
}

func NewS3Gateway(api s3iface.S3API, log zerolog.Logger) *S3Gateway {
	return &S3Gateway{
		api: api,
		log: log.With().Str("component", "s3").Logger(),
	}
}

func (g *S3Gateway) Read(ctx context.Context, bucket string, key string) ([]byte, error) {
	g.log.Info().Msgf("Reading object from %s", URI(bucket, key))
	out, err := g.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, storageErr(etlerr.OpRead, bucket, key, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storageErr(etlerr.OpRead, bucket, key, err)
	}
	g.log.Info().Int("bytes", len(content)).Msgf("Successfully read %d bytes from S3", len(content))
	return content, nil
}

func (g *S3Gateway) Write(ctx context.Context, bucket string, key string, content []byte) error {
	g.log.Info().Msgf("Writing object to %s", URI(bucket, key))
	_, err := g.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return storageErr(etlerr.OpWrite, bucket, key, err)
	}
	g.log.Info().Int("bytes", len(content)).Msgf("Successfully wrote %d bytes to S3", len(content))
	return nil
}

func (g *S3Gateway) Exists(ctx context.Context, bucket string, key string) (bool, error) {
	g.log.Info().Msgf("Checking object %s", URI(bucket, key))
	_, err := g.api.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		g.log.Info().Bool("exists", true).Msg("Object found")
		return true, nil
	}
	se := storageErr(etlerr.OpExists, bucket, key, err)
	if se.NotFound() {
		g.log.Info().Bool("exists", false).Msg("Object not found")
		return false, nil
	}
	return false, se
}

// storageErr : pulls the remote code out of aws errors. A bare 404 from a
// HEAD carries no body so it is mapped to NotFound by status
func storageErr(op etlerr.Op, bucket string, key string, err error) *etlerr.StorageError {
	se := &etlerr.StorageError{Op: op, Bucket: bucket, Key: key, Err: err}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		se.Code = aerr.Code()
	}
	var rerr awserr.RequestFailure
	if errors.As(err, &rerr) && rerr.StatusCode() == http.StatusNotFound && se.Code != s3.ErrCodeNoSuchKey {
		se.Code = etlerr.CodeNotFound
	}
	return se
}

var _ Gateway = (*S3Gateway)(nil)
