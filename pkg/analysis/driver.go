// Package analysis reads the prepared dataset and its group views and applies
// the study's statistics: group descriptives, per-section correlation
// matrices, and single-predictor regressions.
package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/model"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/pipeline"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/stats"
)

// DefaultAlpha is the significance level used to flag correlations in the log.
const DefaultAlpha = 0.05

// Descriptive is the summary of one variable within one view.
type Descriptive struct {
	View     string
	Variable string
	Summary  stats.Summary
}

// SectionCorrelation is the correlation matrix of one section within one view.
type SectionCorrelation struct {
	Section string
	View    string
	Matrix  *stats.Matrix
}

// Regression is one fitted ModelSpec.
type Regression struct {
	Spec pipeline.ModelSpec
	Fit  *model.SimpleRegression
}

// Report collects everything the driver computed, in recipe order.
type Report struct {
	Descriptives []Descriptive
	Correlations []SectionCorrelation
	Regressions  []Regression
}

// Driver runs the analysis recipe over a prepared Result.
type Driver struct {
	schema pipeline.Schema
	logger *zap.Logger
	alpha  float64
}

// NewDriver returns a driver for schema. A nil logger discards output.
func NewDriver(schema pipeline.Schema, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{schema: schema, logger: logger, alpha: DefaultAlpha}
}

// Run computes the report. The first failure aborts it.
func (d *Driver) Run(res *pipeline.Result) (*Report, error) {
	rep := &Report{}
	views := []string{pipeline.ViewAll, res.Member.Name(), res.NonMember.Name()}

	for _, view := range views[1:] {
		for _, variable := range d.schema.Transformable {
			col, err := column(res, view, variable)
			if err != nil {
				return nil, err
			}
			rep.Descriptives = append(rep.Descriptives, Descriptive{View: view, Variable: variable, Summary: stats.Describe(col)})
		}
	}

	for _, sec := range d.schema.Sections {
		for _, view := range views {
			sub, err := selectColumns(res, view, sec.Variables)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", sec.Name, err)
			}
			m, err := stats.CorrelationMatrix(sub)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", sec.Name, err)
			}
			rep.Correlations = append(rep.Correlations, SectionCorrelation{Section: sec.Name, View: view, Matrix: m})
			d.logSignificant(sec.Name, view, m)
		}
	}

	for _, spec := range d.schema.Models {
		fit, err := d.fit(res, spec)
		if err != nil {
			return nil, err
		}
		rep.Regressions = append(rep.Regressions, Regression{Spec: spec, Fit: fit})
		d.logger.Info("fitted linear model",
			zap.String("model", spec.Outcome+" ~ "+spec.Predictor),
			zap.String("view", spec.View),
			zap.Float64("intercept", fit.Intercept),
			zap.Float64("slope", fit.Slope),
			zap.Float64("r2", fit.R2),
			zap.Float64("p", fit.P),
			zap.Int("n", fit.N),
		)
	}
	return rep, nil
}

func (d *Driver) fit(res *pipeline.Result, spec pipeline.ModelSpec) (*model.SimpleRegression, error) {
	x, err := column(res, spec.View, spec.Predictor)
	if err != nil {
		return nil, err
	}
	y, err := column(res, spec.View, spec.Outcome)
	if err != nil {
		return nil, err
	}
	fit := model.NewSimpleRegression()
	if err := fit.Fit(x, y); err != nil {
		if errors.Is(err, model.ErrTooFewObservations) || errors.Is(err, model.ErrNoVariance) {
			return nil, data.DataError(data.StageAnalysis, spec.Predictor, "%s ~ %s on %s: %v", spec.Outcome, spec.Predictor, spec.View, err)
		}
		return nil, err
	}
	return fit, nil
}

func (d *Driver) logSignificant(section, view string, m *stats.Matrix) {
	for i := range m.Names {
		for j := i + 1; j < len(m.Names); j++ {
			c := m.At(i, j)
			if c.P < d.alpha {
				d.logger.Info("significant correlation",
					zap.String("section", section),
					zap.String("view", view),
					zap.String("x", m.Names[i]),
					zap.String("y", m.Names[j]),
					zap.Float64("r", c.R),
					zap.Float64("p", c.P),
					zap.Int("n", c.N),
				)
			}
		}
	}
}

// column reads a variable through the named view.
func column(res *pipeline.Result, view, name string) ([]float64, error) {
	v, ok := res.View(view)
	if !ok {
		return nil, data.SchemaError(data.StageAnalysis, name, "unknown view %q", view)
	}
	if v == nil {
		col, err := res.Dataset.Column(name)
		if err != nil {
			return nil, err
		}
		return append([]float64(nil), col...), nil
	}
	return v.Column(name)
}

func selectColumns(res *pipeline.Result, view string, names []string) (*data.Dataset, error) {
	v, ok := res.View(view)
	if !ok {
		return nil, data.SchemaError(data.StageAnalysis, "", "unknown view %q", view)
	}
	if v == nil {
		return res.Dataset.Select(names...)
	}
	return v.Select(names...)
}
