// containers.go implements the "lastools-toolbox containers" command.
//
// With the docker runtime every LAStools invocation runs in its own
// container, which is removed as soon as the tool exits. Containers are
// only left behind when the CLI itself was killed mid-run, for example
// when a geoprocessing job was cancelled. This command finds them through
// the "lastools.managed-by=lastools-toolbox" label and, with --prune,
// removes them.

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/docker"
)

// now is the clock used for container ages. Tests pin it.
var now = time.Now

// containersFlags holds the flag values for the containers command.
type containersFlags struct {
	// prune removes the listed containers.
	prune bool

	// olderThan restricts the listing to containers at least this old.
	// Zero lists all of them.
	olderThan time.Duration
}

// NewContainersCommand creates the "containers" cobra command.
func NewContainersCommand() *cobra.Command {
	flags := &containersFlags{}

	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List or remove leftover LAStools containers",
		Long: `List LAStools containers left behind by interrupted runs of the docker
runtime, and optionally remove them.

Examples:
  lastools-toolbox containers
  lastools-toolbox containers --prune --older-than 1h
  lastools-toolbox containers --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainers(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.prune, "prune", false, "Remove the listed containers")
	cmd.Flags().DurationVar(&flags.olderThan, "older-than", 0, "Only containers created at least this long ago")

	return cmd
}

// containerJSON is the JSON output structure for one leftover container.
type containerJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tool      string `json:"tool"`
	Run       string `json:"run"`
	State     string `json:"state"`
	CreatedAt string `json:"createdAt"`
	Removed   bool   `json:"removed"`
}

// runContainers is the main logic function for the containers command.
func runContainers(cmd *cobra.Command, flags *containersFlags) error {
	ctx := cmd.Context()

	// Step 1: Configuration, for the daemon address.
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Step 2: Connect to Docker and verify the daemon is available.
	api, closeFn, err := connectDocker(ctx, s.cfg.Docker.Host)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	VerboseLog("Connected to Docker daemon")

	// Step 3: List the managed containers.
	leftovers, err := docker.ListManagedContainers(ctx, api)
	if err != nil {
		return err
	}
	VerboseLog("Found %d managed containers", len(leftovers))

	// Step 4: Apply the --older-than filter.
	current := now()
	if flags.olderThan > 0 {
		filtered := make([]docker.Leftover, 0, len(leftovers))
		for _, l := range leftovers {
			if l.Age(current) >= flags.olderThan {
				filtered = append(filtered, l)
			}
		}
		leftovers = filtered
	}

	// Step 5: Remove them if asked. A failed removal is reported but does
	// not stop the others.
	removed := make(map[string]bool, len(leftovers))
	var firstErr error
	if flags.prune {
		for _, l := range leftovers {
			if err := docker.RemoveContainer(ctx, api, l.ID); err != nil {
				VerboseLog("Warning: %v", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			removed[l.ID] = true
		}
	}

	// Step 6: Output.
	if IsJSONOutput() {
		if err := printContainersJSON(s.out, leftovers, removed); err != nil {
			return err
		}
	} else {
		printContainersText(s.out, leftovers, removed, current)
	}
	return firstErr
}

// printContainersJSON outputs the containers as structured JSON under a
// top-level "containers" key.
func printContainersJSON(w io.Writer, leftovers []docker.Leftover, removed map[string]bool) error {
	result := struct {
		Containers []containerJSON `json:"containers"`
	}{
		// An empty slice renders as [] instead of null.
		Containers: make([]containerJSON, 0, len(leftovers)),
	}
	for _, l := range leftovers {
		result.Containers = append(result.Containers, containerJSON{
			ID:        l.ID,
			Name:      l.Name,
			Tool:      l.Info.Tool,
			Run:       l.Info.Run,
			State:     l.State,
			CreatedAt: l.Info.CreatedAt.UTC().Format(time.RFC3339),
			Removed:   removed[l.ID],
		})
	}
	return printJSON(w, result)
}

// printContainersText outputs the containers as a text table:
//
//	ID            TOOL         RUN                        STATE     AGE
//	4f2a9c1b0e7d  lasground    flightlines_to_CHM         exited    2h15m0s
func printContainersText(w io.Writer, leftovers []docker.Leftover, removed map[string]bool, current time.Time) {
	if len(leftovers) == 0 {
		fmt.Fprintln(w, "No leftover LAStools containers found.")
		return
	}

	fmt.Fprintf(w, "%-13s %-12s %-26s %-9s %s\n", "ID", "TOOL", "RUN", "STATE", "AGE")
	for _, l := range leftovers {
		state := l.State
		if removed[l.ID] {
			state = "removed"
		}
		fmt.Fprintf(w, "%-13s %-12s %-26s %-9s %s\n",
			ShortID(l.ID),
			l.Info.Tool,
			dash(l.Info.Run),
			state,
			l.Age(current),
		)
	}
}

// ShortID truncates a container ID to the 12 characters docker ps shows.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
