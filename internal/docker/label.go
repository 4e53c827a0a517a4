package docker

import (
	"fmt"
	"strings"
	"time"
)

// Label key constants define the Docker label keys put on every
// container that runs a LAStools executable. They make leftover
// containers (for example after the host killed the run) easy to find
// with `docker ps -a --filter label=lastools.managed-by=lastools-toolbox`.
//
// All keys share the "lastools." prefix to namespace them and avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all labels.
	LabelPrefix = "lastools."

	// LabelManagedBy identifies containers started by this CLI.
	// Key: "lastools.managed-by", Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelTool stores the executable the container runs.
	// Key: "lastools.tool", Value: e.g. "las2dem".
	LabelTool = LabelPrefix + "tool"

	// LabelRun stores the tool or pipeline name of the run the container
	// belongs to. Key: "lastools.run", Value: e.g. "flightlines_to_CHM".
	LabelRun = LabelPrefix + "run"

	// LabelCreatedAt stores the RFC3339 timestamp of container creation.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "lastools-toolbox"

// RunInfo is the metadata recorded on a container.
type RunInfo struct {
	// Tool is the executable base name, e.g. "lasground".
	Tool string

	// Run is the tool or pipeline the invocation belongs to.
	Run string

	// CreatedAt is the creation time of the container.
	CreatedAt time.Time
}

// BuildLabels constructs the Docker label map for a container.
func BuildLabels(info RunInfo) map[string]string {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelTool:      info.Tool,
		// UTC keeps the value independent of the host timezone.
		LabelCreatedAt: info.CreatedAt.UTC().Format(time.RFC3339),
	}
	if info.Run != "" {
		labels[LabelRun] = info.Run
	}
	return labels
}

// ParseLabels reconstructs RunInfo from container labels. It is the
// inverse of BuildLabels.
func ParseLabels(labels map[string]string) (*RunInfo, error) {
	var missing []string
	for _, key := range []string{LabelManagedBy, LabelTool, LabelCreatedAt} {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &RunInfo{
		Tool:      labels[LabelTool],
		Run:       labels[LabelRun],
		CreatedAt: createdAt,
	}, nil
}

// ToolName returns the executable base name for a container command
// path: the last path element without its suffix.
func ToolName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}
