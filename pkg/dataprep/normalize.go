package dataprep

import (
	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
)

// AgeBandedPair names two raw columns holding one construct measured with a
// younger-child and an older-child protocol, and the unified column to write.
type AgeBandedPair struct {
	Younger string `yaml:"younger"`
	Older   string `yaml:"older"`
	Output  string `yaml:"output"`
}

// MergeReport counts where each unified value came from.
type MergeReport struct {
	Output      string
	FromOlder   int
	FromYounger int
	Missing     int
	// Conflicts counts rows where both protocols were present; the older value won.
	Conflicts int
}

// MergeAgeBandedPair writes output as the older-protocol value when present,
// else the younger-protocol value (missing when both are absent). Values are
// copied verbatim and both sources stay in the dataset. An existing output
// column is overwritten.
func MergeAgeBandedPair(ds *data.Dataset, younger, older, output string) (MergeReport, error) {
	report := MergeReport{Output: output}
	young, err := ds.Numeric(data.StageNormalize, younger)
	if err != nil {
		return report, err
	}
	old, err := ds.Numeric(data.StageNormalize, older)
	if err != nil {
		return report, err
	}

	unified := make([]float64, ds.Rows())
	for i := range unified {
		switch {
		case !data.IsMissing(old[i]):
			unified[i] = old[i]
			report.FromOlder++
			if !data.IsMissing(young[i]) {
				report.Conflicts++
			}
		case !data.IsMissing(young[i]):
			unified[i] = young[i]
			report.FromYounger++
		default:
			unified[i] = data.Missing
			report.Missing++
		}
	}
	if err := ds.SetColumn(output, unified); err != nil {
		return report, err
	}
	return report, nil
}

// Normalize merges every configured pair, each independently, in order.
func Normalize(ds *data.Dataset, pairs []AgeBandedPair, logger *zap.Logger) ([]MergeReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reports := make([]MergeReport, 0, len(pairs))
	for _, p := range pairs {
		r, err := MergeAgeBandedPair(ds, p.Younger, p.Older, p.Output)
		if err != nil {
			return nil, err
		}
		fields := []zap.Field{
			zap.String("output", r.Output),
			zap.String("younger", p.Younger),
			zap.String("older", p.Older),
			zap.Int("from_older", r.FromOlder),
			zap.Int("from_younger", r.FromYounger),
			zap.Int("missing", r.Missing),
		}
		if r.Conflicts > 0 {
			logger.Warn("both age protocols present, older value kept", append(fields, zap.Int("conflicts", r.Conflicts))...)
		} else {
			logger.Info("merged age-banded pair", fields...)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
