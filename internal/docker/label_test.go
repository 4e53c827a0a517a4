package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildLabels verifies that BuildLabels converts a RunInfo into the
// label map with all required keys.
func TestBuildLabels(t *testing.T) {
	createdAt := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)
	labels := BuildLabels(RunInfo{
		Tool:      "lasground",
		Run:       "flightlines_to_DTM_and_DSM",
		CreatedAt: createdAt,
	})

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy],
		"managed-by label should always be set to the constant value")
	assert.Equal(t, "lasground", labels[LabelTool])
	assert.Equal(t, "flightlines_to_DTM_and_DSM", labels[LabelRun])
	assert.Equal(t, "2026-02-28T10:00:00Z", labels[LabelCreatedAt])
	assert.Len(t, labels, 4)
}

// TestBuildLabels_NoRun verifies that the run label is omitted when the
// invocation does not belong to a named run.
func TestBuildLabels_NoRun(t *testing.T) {
	labels := BuildLabels(RunInfo{Tool: "lasinfo", CreatedAt: time.Now()})

	_, ok := labels[LabelRun]
	assert.False(t, ok, "run label should be absent")
	assert.Len(t, labels, 3)
}

// TestBuildLabels_UTC verifies that timestamps are stored in UTC.
func TestBuildLabels_UTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	labels := BuildLabels(RunInfo{
		Tool:      "lasinfo",
		CreatedAt: time.Date(2026, 2, 28, 19, 0, 0, 0, tokyo),
	})

	assert.Equal(t, "2026-02-28T10:00:00Z", labels[LabelCreatedAt])
}

// TestParseLabels_RoundTrip verifies that ParseLabels inverts BuildLabels.
func TestParseLabels_RoundTrip(t *testing.T) {
	original := RunInfo{
		Tool:      "las2dem",
		Run:       "las2dem",
		CreatedAt: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
	}

	info, err := ParseLabels(BuildLabels(original))
	require.NoError(t, err)
	assert.Equal(t, original.Tool, info.Tool)
	assert.Equal(t, original.Run, info.Run)
	assert.True(t, original.CreatedAt.Equal(info.CreatedAt))
}

// TestParseLabels_Errors covers the rejected label sets.
func TestParseLabels_Errors(t *testing.T) {
	tests := []struct {
		name    string
		labels  map[string]string
		wantErr string
	}{
		{
			name:    "no labels",
			labels:  map[string]string{},
			wantErr: "missing required Docker labels",
		},
		{
			name: "missing tool",
			labels: map[string]string{
				LabelManagedBy: ManagedByValue,
				LabelCreatedAt: "2026-02-28T10:00:00Z",
			},
			wantErr: LabelTool,
		},
		{
			name: "foreign manager",
			labels: map[string]string{
				LabelManagedBy: "someone-else",
				LabelTool:      "lasinfo",
				LabelCreatedAt: "2026-02-28T10:00:00Z",
			},
			wantErr: "unexpected value",
		},
		{
			name: "bad timestamp",
			labels: map[string]string{
				LabelManagedBy: ManagedByValue,
				LabelTool:      "lasinfo",
				LabelCreatedAt: "yesterday",
			},
			wantErr: LabelCreatedAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLabels(tt.labels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToolName(t *testing.T) {
	tests := map[string]string{
		"/opt/lastools/bin/lasground.exe": "lasground",
		`C:\LAStools\bin\las2dem.exe`:     "las2dem",
		"lasinfo":                         "lasinfo",
		"lasinfo64":                       "lasinfo64",
		"/usr/local/bin/lasview":          "lasview",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToolName(in), in)
	}
}
