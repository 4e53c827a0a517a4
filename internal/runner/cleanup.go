package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// RemoveMatching deletes the regular files matching pattern and reports
// what it did the way the Windows "del" builtin does.
//
// Only the last path element may contain wildcards; it is matched
// against the entries of its directory. A relative pattern is resolved
// against dir. No match is not a failure, the same as "del". Failing to
// remove a matched file is, and yields exit status 1.
func RemoveMatching(pattern, dir string) (*model.Result, error) {
	folder, name := filepath.Split(pattern)
	if name == "" {
		return nil, model.ArgumentError("clean-up pattern %q has no file name", pattern)
	}

	g, err := glob.Compile(name)
	if err != nil {
		return nil, model.ArgumentError("invalid clean-up pattern %q", pattern).WithErr(err)
	}

	base := folder
	if base == "" {
		base = "."
	}
	if !filepath.IsAbs(base) && dir != "" {
		base = filepath.Join(dir, base)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return &model.Result{ExitCode: 0, Output: "Could Not Find " + pattern}, nil
	}

	var out strings.Builder
	removed := 0
	failed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !g.Match(entry.Name()) {
			continue
		}
		path := filepath.Join(base, entry.Name())
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(&out, "%v\n", err)
			failed++
			continue
		}
		removed++
	}

	log.Debug().Str("pattern", pattern).Int("removed", removed).Int("failed", failed).Msg("clean-up")

	switch {
	case failed > 0:
		fmt.Fprintf(&out, "%d file(s) deleted, %d could not be deleted", removed, failed)
		return &model.Result{ExitCode: 1, Output: out.String()}, nil
	case removed == 0:
		return &model.Result{ExitCode: 0, Output: "Could Not Find " + pattern}, nil
	default:
		fmt.Fprintf(&out, "%d file(s) deleted", removed)
		return &model.Result{ExitCode: 0, Output: out.String()}, nil
	}
}

// cleanup runs the cleanup dispatch of cmd. It takes exactly one glob.
func cleanup(cmd *model.Command, dir string) (*model.Result, error) {
	if len(cmd.Args) != 1 {
		return nil, model.ArgumentError("clean-up takes one file pattern, got %d", len(cmd.Args))
	}
	return RemoveMatching(cmd.Args[0].Value, dir)
}
