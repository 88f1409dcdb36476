package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChurnEntryTotal(t *testing.T) {
	assert.Equal(t, 0, ChurnEntry{}.Total())
	assert.Equal(t, 7, ChurnEntry{Path: "a.go", Additions: 5, Deletions: 2}.Total())
}

func TestAnalysisResultJSONKeys(t *testing.T) {
	result := AnalysisResult{
		Hotspots: []HotspotEntry{{Path: "src/main.py", ChangeCount: 2, Directory: "src"}},
		FileTree: []FileTreeEntry{{Path: "src/main.py", LOC: 4, Churn: 4}},
		SurvivalCurves: []SurvivalCurve{{
			Cohort: "2024-Q1",
			Data:   []SurvivalSample{{WeeksElapsed: 0, SurvivingLines: 1.0}},
		}},
		Churn: []ChurnEntry{{Path: "src/main.py", Additions: 4}},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3, "churn must stay out of the JSON contract")
	assert.Contains(t, decoded, "hotspots")
	assert.Contains(t, decoded, "file_tree")
	assert.Contains(t, decoded, "survival_curves")

	assert.JSONEq(t, `[{"path":"src/main.py","change_count":2,"directory":"src"}]`, mustMarshal(t, result.Hotspots))
	assert.JSONEq(t, `[{"path":"src/main.py","loc":4,"churn":4}]`, mustMarshal(t, result.FileTree))
	assert.JSONEq(t, `[{"cohort":"2024-Q1","data":[{"weeks_elapsed":0,"surviving_lines":1}]}]`, mustMarshal(t, result.SurvivalCurves))
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
