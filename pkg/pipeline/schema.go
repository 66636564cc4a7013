package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"
)

// ViewAll selects the whole dataset in a ModelSpec.
const ViewAll = "all"

// Grouping splits subjects by a binary indicator.
type Grouping struct {
	Indicator     string  `yaml:"indicator"`
	Member        float64 `yaml:"member"`
	MemberName    string  `yaml:"member_name"`
	NonMemberName string  `yaml:"non_member_name"`
}

// Section is a named set of variables correlated together.
type Section struct {
	Name      string   `yaml:"name"`
	Variables []string `yaml:"variables"`
}

// ModelSpec is one single-predictor regression, fitted on View ("all" or a group name).
type ModelSpec struct {
	Outcome   string `yaml:"outcome"`
	Predictor string `yaml:"predictor"`
	View      string `yaml:"view"`
}

// Schema is the analysis recipe: which columns to merge, how to group
// subjects, which variables to transform and center, and what to analyse.
type Schema struct {
	AgeBanded     []dataprep.AgeBandedPair `yaml:"age_banded"`
	Grouping      Grouping                 `yaml:"grouping"`
	Transformable []string                 `yaml:"transformable"`
	Sections      []Section                `yaml:"sections"`
	Models        []ModelSpec              `yaml:"models"`
}

// LoadSchema reads a YAML recipe and validates it.
func LoadSchema(path string) (Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, err
	}
	return ParseSchema(raw)
}

// ParseSchema decodes a YAML recipe and validates it. Unknown keys are rejected.
func ParseSchema(raw []byte) (Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Schema{}, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

func schemaErr(format string, args ...any) error {
	return fmt.Errorf("%w: recipe: %s", data.ErrSchema, fmt.Sprintf(format, args...))
}

// Validate checks the recipe is internally consistent. Column existence is
// checked later against the loaded dataset.
func (s Schema) Validate() error {
	g := s.Grouping
	if g.Indicator == "" {
		return schemaErr("grouping indicator is empty")
	}
	if g.MemberName == "" || g.NonMemberName == "" || g.MemberName == g.NonMemberName {
		return schemaErr("group names %q and %q must be distinct and non-empty", g.MemberName, g.NonMemberName)
	}
	if g.MemberName == ViewAll || g.NonMemberName == ViewAll {
		return schemaErr("group name %q is reserved", ViewAll)
	}
	if len(s.Transformable) == 0 {
		return schemaErr("no transformable variables")
	}

	transformable := make(map[string]struct{}, len(s.Transformable))
	for _, name := range s.Transformable {
		if name == "" {
			return schemaErr("empty transformable variable name")
		}
		if _, dup := transformable[name]; dup {
			return schemaErr("variable %q listed twice", name)
		}
		if name == g.Indicator {
			return schemaErr("grouping indicator %q cannot be transformed", name)
		}
		transformable[name] = struct{}{}
	}

	outputs := make(map[string]struct{}, len(s.AgeBanded))
	for _, p := range s.AgeBanded {
		if p.Younger == "" || p.Older == "" || p.Output == "" {
			return schemaErr("age-banded pair %+v has an empty name", p)
		}
		if p.Output == p.Younger || p.Output == p.Older {
			return schemaErr("age-banded output %q would overwrite its own source", p.Output)
		}
		if _, dup := outputs[p.Output]; dup {
			return schemaErr("age-banded output %q written twice", p.Output)
		}
		if p.Output == g.Indicator {
			return schemaErr("age-banded output %q would overwrite the grouping indicator", p.Output)
		}
		outputs[p.Output] = struct{}{}
	}

	for _, sec := range s.Sections {
		if sec.Name == "" || len(sec.Variables) == 0 {
			return schemaErr("section %q needs a name and variables", sec.Name)
		}
	}
	views := map[string]struct{}{ViewAll: {}, g.MemberName: {}, g.NonMemberName: {}}
	for _, m := range s.Models {
		if m.Outcome == "" || m.Predictor == "" {
			return schemaErr("model %+v needs an outcome and a predictor", m)
		}
		if _, ok := views[m.View]; !ok {
			return schemaErr("model %s ~ %s uses unknown view %q", m.Outcome, m.Predictor, m.View)
		}
	}
	return nil
}

// Required lists every column the recipe reads from the raw dataset.
func (s Schema) Required() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	produced := make(map[string]struct{}, len(s.AgeBanded))
	for _, p := range s.AgeBanded {
		add(p.Younger)
		add(p.Older)
		produced[p.Output] = struct{}{}
	}
	add(s.Grouping.Indicator)
	for _, name := range s.Transformable {
		if _, ok := produced[name]; !ok {
			add(name)
		}
	}
	return out
}
