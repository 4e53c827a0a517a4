package pipeline

import (
	"os"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/report"
)

// CheckTempDir verifies the temp directory a pipeline writes its
// intermediate files to. The directory must exist and be empty, because
// the cleanup glob would otherwise delete files the pipeline did not
// create. It is never created or locked.
//
// An Unset dir passes unless required; the temp files then go to the
// working directory.
func CheckTempDir(dir string, required bool, m report.Messenger) error {
	if m == nil {
		m = report.Discard{}
	}

	if dir == model.Unset {
		if !required {
			return nil
		}
		msg := "Error. no empty temp directory was specified."
		m.AddMessage(msg)
		return model.ConfigError("%s", msg)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		msg := "Cannot find empty temp dir " + dir
		m.AddMessage(msg)
		return model.ConfigError("%s", msg).WithErr(err)
	}
	m.AddMessage("Found " + dir + " ...")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.ConfigError("cannot read temp dir %s", dir).WithErr(err)
	}
	if len(entries) > 0 {
		msg := "Empty temp directory '" + dir + "' is not empty"
		m.AddMessage(msg)
		return model.ConfigError("%s", msg)
	}
	m.AddMessage("And it's empty ...")

	return nil
}
