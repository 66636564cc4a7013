package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipe = `
age_banded:
  - {younger: PHON_PreK, older: PHON_School, output: PHON}
grouping: {indicator: HI, member: 1, member_name: HI, non_member_name: TD}
transformable: [FS_MLU, PPVT, PHON]
sections:
  - {name: language, variables: [FS_MLU, PPVT, PHON]}
models:
  - {outcome: FS_MLU, predictor: HI, view: all}
  - {outcome: FS_MLU, predictor: PPVT, view: TD}
`

const testCSV = `id,HI,FS_MLU,PPVT,PHON_PreK,PHON_School
c01,1,2.0,70,3,
c02,1,2.6,85,5,
c03,1,3.1,78,,8
c04,1,2.2,90,2,
c05,0,4.8,102,,12
c06,0,4.1,95,4,
c07,0,5.2,110,,15
c08,0,3.9,104,9,
c09,0,6.0,125,,7
c10,0,4.4,118,6,
`

func writeInputs(t *testing.T) (dir, csvPath, recipePath string) {
	t.Helper()
	dir = t.TempDir()
	csvPath = filepath.Join(dir, "children.csv")
	recipePath = filepath.Join(dir, "recipe.yaml")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0o600))
	require.NoError(t, os.WriteFile(recipePath, []byte(testRecipe), 0o600))
	return dir, csvPath, recipePath
}

func TestAnalyzeCommand(t *testing.T) {
	dir, csvPath, recipePath := writeInputs(t)
	plots := filepath.Join(dir, "plots")
	metrics := filepath.Join(dir, "narrative.prom")

	root := newRootCmd()
	root.SetArgs([]string{
		"analyze",
		"--input", csvPath,
		"--schema", recipePath,
		"--plot-dir", plots,
		"--metrics-file", metrics,
	})
	require.NoError(t, root.ExecuteContext(context.Background()))

	for _, name := range []string{"transform_FS_MLU.png", "transform_PHON.png", "model_FS_MLU_HI_all.png", "model_FS_MLU_PPVT_TD.png"} {
		assert.FileExists(t, filepath.Join(plots, name))
	}
	raw, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "narrative_transform_choices_total")
}

func TestPrepareCommandMissingColumn(t *testing.T) {
	dir, _, recipePath := writeInputs(t)
	csvPath := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,HI,FS_MLU\nc01,1,2\n"), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"prepare", "--input", csvPath, "--schema", recipePath})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required column missing")
}

func TestInputFlagIsRequired(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"prepare"})
	assert.Error(t, root.Execute())
}
