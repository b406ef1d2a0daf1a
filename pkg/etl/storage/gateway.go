// package storage
//
// blob access by (bucket, key). S3Gateway talks to s3, FsGateway keeps the
// same layout on an afero filesystem for local runs and tests
package storage

import (
	"context"
	"fmt"
)

// Gateway : read / write / exists over whole blobs
type Gateway interface {
	// Read : full object content
	Read(ctx context.Context, bucket string, key string) ([]byte, error)
	// Write : replaces whatever is stored at key
	Write(ctx context.Context, bucket string, key string, content []byte) error
	// Exists : false only when the object is missing, other failures are errors
	Exists(ctx context.Context, bucket string, key string) (bool, error)
}

// URI : printable address of a blob
func URI(bucket string, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
