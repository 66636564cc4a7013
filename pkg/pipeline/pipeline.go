package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"
)

// Result is the prepared dataset, its two group views and the audit trail of
// every stage. The views filter Dataset itself, so they see the transformed and
// centered values.
type Result struct {
	RunID     string
	Dataset   *data.Dataset
	Member    *data.View
	NonMember *data.View
	Merges    []dataprep.MergeReport
	Decisions []dataprep.Decision
	Means     map[string]float64
}

// View returns the named view: ViewAll yields nil with ok true.
func (r *Result) View(name string) (view *data.View, ok bool) {
	switch name {
	case ViewAll:
		return nil, true
	case r.Member.Name():
		return r.Member, true
	case r.NonMember.Name():
		return r.NonMember, true
	}
	return nil, false
}

// Step is one stage of the preparation pipeline. Steps run strictly in order
// and each mutates the shared Result alone.
type Step interface {
	Name() data.Stage
	Run(res *Result, logger *zap.Logger) error
}

// Pipeline prepares a raw dataset for analysis:
// normalize, partition, transform, center.
type Pipeline struct {
	schema  Schema
	steps   []Step
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records stage timings and transform choices.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New builds the pipeline for a validated schema.
func New(schema Schema, opts ...Option) (*Pipeline, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		schema: schema,
		steps: []Step{
			normalizeStep{pairs: schema.AgeBanded},
			partitionStep{grouping: schema.Grouping},
			transformStep{columns: schema.Transformable},
			centerStep{columns: schema.Transformable},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Schema returns the recipe the pipeline runs.
func (p *Pipeline) Schema() Schema { return p.schema }

// Run prepares ds in place. Any error aborts the run; ds is then in an
// unspecified partially prepared state and must not be analysed.
func (p *Pipeline) Run(ctx context.Context, ds *data.Dataset) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Dataset: ds}
	logger := p.logger.With(zap.String("run_id", res.RunID))

	for _, name := range p.schema.Required() {
		if !ds.Has(name) {
			return nil, data.SchemaError(data.StageLoad, name, "required column missing from input")
		}
	}
	logger.Info("pipeline started", zap.Int("rows", ds.Rows()), zap.Int("columns", len(ds.Names())))

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("before %s: %w", step.Name(), err)
		}
		start := time.Now()
		stepLogger := logger.With(zap.String("stage", string(step.Name())))
		if err := step.Run(res, stepLogger); err != nil {
			stepLogger.Error("stage failed", zap.Error(err))
			return nil, err
		}
		elapsed := time.Since(start)
		p.metrics.observeStage(step.Name(), elapsed)
		stepLogger.Info("stage finished", zap.Int("columns", len(ds.Names())), zap.Duration("elapsed", elapsed))
	}

	p.metrics.observeRows(ViewAll, ds.Rows())
	p.metrics.observeRows(res.Member.Name(), res.Member.Len())
	p.metrics.observeRows(res.NonMember.Name(), res.NonMember.Len())
	p.metrics.observeDecisions(res.Decisions)
	p.metrics.succeeded(time.Now())
	logger.Info("pipeline finished",
		zap.Int("rows", ds.Rows()),
		zap.Int(res.Member.Name(), res.Member.Len()),
		zap.Int(res.NonMember.Name(), res.NonMember.Len()),
	)
	return res, nil
}

type normalizeStep struct{ pairs []dataprep.AgeBandedPair }

func (normalizeStep) Name() data.Stage { return data.StageNormalize }

func (s normalizeStep) Run(res *Result, logger *zap.Logger) error {
	reports, err := dataprep.Normalize(res.Dataset, s.pairs, logger)
	if err != nil {
		return err
	}
	res.Merges = reports
	return nil
}

type partitionStep struct{ grouping Grouping }

func (partitionStep) Name() data.Stage { return data.StagePartition }

func (s partitionStep) Run(res *Result, logger *zap.Logger) error {
	g := s.grouping
	member, nonMember, err := data.PartitionNamed(res.Dataset, g.Indicator, g.Member, g.MemberName, g.NonMemberName)
	if err != nil {
		return err
	}
	res.Member, res.NonMember = member, nonMember
	logger.Info("partitioned subjects",
		zap.String("indicator", g.Indicator),
		zap.Int(member.Name(), member.Len()),
		zap.Int(nonMember.Name(), nonMember.Len()),
	)
	return nil
}

type transformStep struct{ columns []string }

func (transformStep) Name() data.Stage { return data.StageTransform }

func (s transformStep) Run(res *Result, logger *zap.Logger) error {
	decisions, err := dataprep.TransformAll(res.Dataset, s.columns, logger)
	if err != nil {
		return err
	}
	res.Decisions = decisions
	return nil
}

type centerStep struct{ columns []string }

func (centerStep) Name() data.Stage { return data.StageCenter }

func (s centerStep) Run(res *Result, logger *zap.Logger) error {
	means, err := dataprep.Center(res.Dataset, s.columns, logger)
	if err != nil {
		return err
	}
	res.Means = means
	return nil
}
