package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_PrintsReportJSON(t *testing.T) {
	out, err := executeCommand(t, "analyze", "Nova Robotics", "--categories", "robotics,automation")
	require.NoError(t, err)

	var rep map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Nova Robotics", rep["brand_name"])
	assert.NotEmpty(t, rep["semantic_queries"])

	meta, ok := rep["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "simulated", meta["analysis_method"])
}

func TestAnalyzeCommand_CategoriesOptional(t *testing.T) {
	out, err := executeCommand(t, "analyze", "Nova Robotics")
	require.NoError(t, err)

	var rep map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Nova Robotics", rep["brand_name"])
}

func TestAnalyzeCommand_BlankCategory(t *testing.T) {
	_, err := executeCommand(t, "analyze", "Nova Robotics", "--categories", " , ")
	require.NoError(t, err)
}

func TestMetricsCommand(t *testing.T) {
	out, err := executeCommand(t, "metrics", "Nova Robotics")
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Contains(t, m, "overall_score")
	assert.Contains(t, m, "performance_grade")
}

func TestQueriesCommand(t *testing.T) {
	out, err := executeCommand(t, "queries", "Nova Robotics", "--categories", "robotics")
	require.NoError(t, err)

	var insights map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &insights))
	assert.Equal(t, "Nova Robotics", insights["brand_name"])
	assert.NotEmpty(t, insights["queries"])
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := executeCommand(t, "nonsense")
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b ,"))
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV(" , "))
}
