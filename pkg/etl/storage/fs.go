package storage

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FsGateway : Gateway over a filesystem, buckets are top level directories
type FsGateway struct {
	fs  afero.Fs
	log zerolog.Logger
}

func NewFsGateway(fsys afero.Fs, log zerolog.Logger) *FsGateway {
	return &FsGateway{
		fs:  fsys,
		log: log.With().Str("component", "fs").Logger(),
	}
}

// path : keys can not climb out of their bucket
func (g *FsGateway) path(bucket string, key string) string {
	return filepath.Join(filepath.Clean("/"+bucket), filepath.Clean("/"+filepath.FromSlash(key)))
}

func (g *FsGateway) Read(_ context.Context, bucket string, key string) ([]byte, error) {
	g.log.Info().Msgf("Reading object from %s", URI(bucket, key))
	content, err := afero.ReadFile(g.fs, g.path(bucket, key))
	if err != nil {
		return nil, fsErr(etlerr.OpRead, bucket, key, err)
	}
	g.log.Info().Int("bytes", len(content)).Msgf("Successfully read %d bytes", len(content))
	return content, nil
}

// Write : content lands in a temp file next to the target and is renamed
// over it, a failed write leaves the old object untouched
func (g *FsGateway) Write(_ context.Context, bucket string, key string, content []byte) error {
	g.log.Info().Msgf("Writing object to %s", URI(bucket, key))
	target := g.path(bucket, key)
	dir := filepath.Dir(target)

	if err := g.fs.MkdirAll(dir, 0755); err != nil {
		return fsErr(etlerr.OpWrite, bucket, key, err)
	}
	tmp, err := afero.TempFile(g.fs, dir, ".etl-*")
	if err != nil {
		return fsErr(etlerr.OpWrite, bucket, key, err)
	}
	_, err = tmp.Write(content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = g.fs.Rename(tmp.Name(), target)
	}
	if err != nil {
		_ = g.fs.Remove(tmp.Name())
		return fsErr(etlerr.OpWrite, bucket, key, err)
	}
	g.log.Info().Int("bytes", len(content)).Msgf("Successfully wrote %d bytes", len(content))
	return nil
}

func (g *FsGateway) Exists(_ context.Context, bucket string, key string) (bool, error) {
	g.log.Info().Msgf("Checking object %s", URI(bucket, key))
	ok, err := afero.Exists(g.fs, g.path(bucket, key))
	if err != nil {
		return false, fsErr(etlerr.OpExists, bucket, key, err)
	}
	g.log.Info().Bool("exists", ok).Msg("Existence checked")
	return ok, nil
}

func fsErr(op etlerr.Op, bucket string, key string, err error) *etlerr.StorageError {
	se := &etlerr.StorageError{Op: op, Bucket: bucket, Key: key, Err: err}
	if errors.Is(err, fs.ErrNotExist) {
		se.Code = etlerr.CodeNoSuchKey
	}
	return se
}

var _ Gateway = (*FsGateway)(nil)
