package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		blocks      bool
		drawMap     bool
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "first-fit summary",
			policy:      "first-fit",
			wantContain: []string{"Allocator (first-fit)", "Operations:", "Free space:"},
		},
		{
			name:        "best-fit with free list and map",
			policy:      "best",
			blocks:      true,
			drawMap:     true,
			wantContain: []string{"Allocator (best-fit)", "Free list (", "1 cell = "},
		},
		{
			name:        "json output",
			policy:      "first-fit",
			wantJSON:    true,
			wantContain: []string{`"policy": "first-fit"`, `"free_blocks"`},
		},
		{
			name:    "unknown policy",
			policy:  "worst-fit",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			runPolicy = tt.policy
			runBlocks = tt.blocks
			runMap = tt.drawMap
			jsonOut = tt.wantJSON

			output, err := captureOutput(t, runRun)

			if (err != nil) != tt.wantErr {
				t.Errorf("runRun() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
				return
			}
			if tt.wantJSON && !tt.wantErr {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestRunQuietPrintsNothing(t *testing.T) {
	resetFlags()
	quiet = true

	output, err := captureOutput(t, runRun)
	require.NoError(t, err)
	require.Empty(t, output)
}

func TestCompareCommand(t *testing.T) {
	resetFlags()

	output, err := captureOutput(t, runCompare)
	require.NoError(t, err)
	assertContains(t, output, []string{"first-fit", "best-fit", "fragmentation", "scan steps"})
}

func TestCompareJSONIsDeterministic(t *testing.T) {
	resetFlags()
	jsonOut = true

	first, err := captureOutput(t, runCompare)
	require.NoError(t, err)
	second, err := captureOutput(t, runCompare)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var entries []compareEntry
	require.NoError(t, json.Unmarshal([]byte(first), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "first-fit", entries[0].Snapshot.Policy)
	require.Equal(t, "best-fit", entries[1].Snapshot.Policy)
	// Both policies saw the same allocation requests.
	require.Equal(t,
		entries[0].Result.Allocs+entries[0].Result.Failed,
		entries[1].Result.Allocs+entries[1].Result.Failed)
}

func TestCompareRejectsDuplicatePolicy(t *testing.T) {
	resetFlags()
	comparePolicies = []string{"best-fit", "best"}

	_, err := captureOutput(t, runCompare)
	require.Error(t, err)
}

func TestScenarioCommand(t *testing.T) {
	tests := []struct {
		name        string
		spans       []int
		wantContain []string
	}{
		{
			name:  "policies diverge",
			spans: []int{100, 70, 200},
			wantContain: []string{
				"first-fit  -> block at 0 (60 bytes)",
				"best-fit   -> block at 132 (70 bytes)",
			},
		},
		{
			name:  "policies agree",
			spans: []int{100, 50, 200},
			wantContain: []string{
				"first-fit  -> block at 0 (60 bytes)",
				"best-fit   -> block at 0 (60 bytes)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			scenarioSpans = tt.spans

			output, err := captureOutput(t, runScenario)
			require.NoError(t, err, output)
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestScenarioJSON(t *testing.T) {
	resetFlags()
	jsonOut = true

	output, err := captureOutput(t, runScenario)
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"policy": "best-fit"`, `"chosen"`})
}

func TestInvalidLocale(t *testing.T) {
	resetFlags()
	locale = "not a locale!"

	_, err := captureOutput(t, runScenario)
	require.Error(t, err)
}
