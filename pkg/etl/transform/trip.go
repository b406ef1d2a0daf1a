package transform

import (
	"github.com/baderkha/trip-etl/pkg/etl/record"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// TripTransformer : transformer for trip records
type TripTransformer struct {
	log zerolog.Logger
}

func NewTripTransformer(log zerolog.Logger) *TripTransformer {
	return &TripTransformer{log: log.With().Str("component", "transformer").Logger()}
}

// TransformRow : shallow copy of the row. Field renames and derived fields
// go here once there are rules for them
func (t *TripTransformer) TransformRow(r record.Record) (record.Record, error) {
	return guardRow(t.copyRow, r)
}

func (t *TripTransformer) copyRow(r record.Record) (record.Record, error) {
	if ev := t.log.Debug(); ev.Enabled() {
		ev.Str("row", dumper.Sdump(r.Fields())).Msg("transforming row")
	}
	return r.Clone(), nil
}

func (t *TripTransformer) TransformBatch(rows []record.Record) ([]record.Record, error) {
	t.log.Info().Int("rows", len(rows)).Msgf("Transforming batch of %d rows", len(rows))
	out, err := mapBatch(rows, t.TransformRow)
	if err != nil {
		return nil, err
	}
	t.log.Info().Int("rows", len(out)).Msgf("Successfully transformed %d rows", len(out))
	return out, nil
}

var (
	_ Transformer = (*TripTransformer)(nil)
	_ Transformer = RowFunc(nil)
)
