package etl

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/baderkha/trip-etl/pkg/etl/record"
	"github.com/baderkha/trip-etl/pkg/etl/storage"
	"github.com/baderkha/trip-etl/pkg/etl/transform"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AWSRegion:         "us-east-1",
		SourceBucket:      "raw",
		SourceKey:         "trips/in.json",
		DestinationBucket: "clean",
		DestinationKey:    "trips/out.json",
		LogLevel:          "INFO",
	}
}

type fixture struct {
	fs  afero.Fs
	cfg *config.Config
}

func newFixture(t *testing.T, source string) *fixture {
	t.Helper()
	f := &fixture{fs: afero.NewMemMapFs(), cfg: testConfig()}
	if source != "" {
		require.NoError(t, afero.WriteFile(f.fs, "/raw/trips/in.json", []byte(source), os.ModePerm))
	}
	return f
}

func (f *fixture) processor(tr transform.Transformer) *Processor {
	if tr == nil {
		tr = transform.NewTripTransformer(zerolog.Nop())
	}
	return NewProcessor(f.cfg, storage.NewFsGateway(f.fs, zerolog.Nop()), tr, zerolog.Nop())
}

func (f *fixture) output(t *testing.T) string {
	t.Helper()
	b, err := afero.ReadFile(f.fs, "/clean/trips/out.json")
	require.NoError(t, err)
	return string(b)
}

func requireETLError(t *testing.T, err error, phase etlerr.Phase) *etlerr.ETLError {
	t.Helper()
	var etlErr *etlerr.ETLError
	require.ErrorAs(t, err, &etlErr)
	assert.Equal(t, phase, etlErr.Phase)
	return etlErr
}

func TestRunEndToEnd(t *testing.T) {
	f := newFixture(t, `{"trip_id": "t1", "miles": 4.2}`)

	require.NoError(t, f.processor(nil).Run(context.Background()))
	assert.Equal(t, "[\n  {\n    \"trip_id\": \"t1\",\n    \"miles\": 4.2\n  }\n]", f.output(t))
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t, `[{"trip_id":"t1","miles":4.2,"tags":["a","b"]},{"trip_id":"t2","miles":null}]`)
	ctx := context.Background()

	require.NoError(t, f.processor(nil).Run(ctx))
	first := f.output(t)
	require.NoError(t, f.processor(nil).Run(ctx))
	assert.Equal(t, first, f.output(t))
}

func TestRunEmptyBatch(t *testing.T) {
	f := newFixture(t, `[]`)
	require.NoError(t, f.processor(nil).Run(context.Background()))
	assert.Equal(t, "[]", f.output(t))
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("single object", func(t *testing.T) {
		batch, err := newFixture(t, `{"a": 1}`).processor(nil).Extract(ctx)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		v, _ := batch[0].Get("a")
		assert.Equal(t, json.Number("1"), v)
	})

	t.Run("array in order", func(t *testing.T) {
		batch, err := newFixture(t, `[{"a":1},{"a":2}]`).processor(nil).Extract(ctx)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		first, _ := batch[0].Get("a")
		second, _ := batch[1].Get("a")
		assert.Equal(t, []any{json.Number("1"), json.Number("2")}, []any{first, second})
	})

	t.Run("bare string", func(t *testing.T) {
		_, err := newFixture(t, `"not an object or array"`).processor(nil).Extract(ctx)
		requireETLError(t, err, etlerr.PhaseExtract)
		assert.ErrorIs(t, err, record.ErrUnexpectedShape)
		assert.EqualError(t, err, "extraction failed: unexpected data format: string")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := newFixture(t, `{"a": [1, 2`).processor(nil).Extract(ctx)
		requireETLError(t, err, etlerr.PhaseExtract)
		assert.ErrorIs(t, err, record.ErrMalformed)
		assert.Contains(t, err.Error(), "failed to parse JSON data")
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := newFixture(t, "").processor(nil).Extract(ctx)
		requireETLError(t, err, etlerr.PhaseExtract)
		assert.Contains(t, err.Error(), "NoSuchKey")
		assert.True(t, etlerr.IsNotFound(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newFixture(t, `{}`).processor(nil).Extract(cctx)
		requireETLError(t, err, etlerr.PhaseExtract)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTransformFailure(t *testing.T) {
	f := newFixture(t, `[{"a":1},{"a":2}]`)
	bad := transform.RowFunc(func(r record.Record) (record.Record, error) {
		if v, _ := r.Get("a"); v == json.Number("2") {
			return record.Record{}, errors.New("negative distance")
		}
		return r, nil
	})

	err := f.processor(bad).Run(context.Background())
	requireETLError(t, err, etlerr.PhaseTransform)
	assert.EqualError(t, err, "transformation failed: failed to transform batch at row 1: negative distance")

	var te *etlerr.TransformationError
	assert.ErrorAs(t, err, &te)

	exists, _ := afero.Exists(f.fs, "/clean/trips/out.json")
	assert.False(t, exists, "nothing is written when a phase before load fails")
}

type panicTransformer struct{ transform.Transformer }

func (panicTransformer) TransformBatch([]record.Record) ([]record.Record, error) {
	panic("index out of range")
}

func TestTransformPanic(t *testing.T) {
	err := newFixture(t, `{}`).processor(panicTransformer{}).Run(context.Background())
	requireETLError(t, err, etlerr.PhaseTransform)
	assert.Contains(t, err.Error(), "panic: index out of range")
}

func TestLoadFailure(t *testing.T) {
	f := newFixture(t, `{"a":1}`)
	p := NewProcessor(f.cfg, storage.NewFsGateway(afero.NewReadOnlyFs(f.fs), zerolog.Nop()), transform.NewTripTransformer(zerolog.Nop()), zerolog.Nop())

	err := p.Run(context.Background())
	requireETLError(t, err, etlerr.PhaseLoad)
	assert.Contains(t, err.Error(), "loading failed")

	var se *etlerr.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, etlerr.OpWrite, se.Op)
}

func TestAsETLError(t *testing.T) {
	inner := etlerr.Phased(etlerr.PhaseLoad, errors.New("x"))
	assert.Same(t, inner, asETLError(inner))

	wrapped := asETLError(errors.New("surprise"))
	requireETLError(t, wrapped, etlerr.PhaseRun)
	assert.EqualError(t, wrapped, "etl pipeline failed: surprise")
}

func TestRunIDIsUnique(t *testing.T) {
	f := newFixture(t, `{}`)
	a, b := f.processor(nil), f.processor(nil)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}
