package dataprep

import (
	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

// CenterInPlace subtracts each column's mean from its present values. Spread is
// left alone. It returns the subtracted means by column.
func CenterInPlace(ds *data.Dataset, columns []string) (map[string]float64, error) {
	cols := make([][]float64, len(columns))
	for i, name := range columns {
		values, err := ds.Numeric(data.StageCenter, name)
		if err != nil {
			return nil, err
		}
		if stats.Count(values) == 0 {
			return nil, data.DataError(data.StageCenter, name, "no present values to average")
		}
		cols[i] = values
	}

	means := make(map[string]float64, len(columns))
	for i, name := range columns {
		mean := stats.Mean(cols[i])
		for j, v := range cols[i] {
			if !data.IsMissing(v) {
				cols[i][j] = v - mean
			}
		}
		means[name] = mean
	}
	return means, nil
}

// Center is CenterInPlace with one debug line per column.
func Center(ds *data.Dataset, columns []string, logger *zap.Logger) (map[string]float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	means, err := CenterInPlace(ds, columns)
	if err != nil {
		return nil, err
	}
	for _, name := range columns {
		logger.Debug("centered variable", zap.String("variable", name), zap.Float64("mean", means[name]))
	}
	return means, nil
}
