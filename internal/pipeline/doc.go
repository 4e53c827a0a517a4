// Package pipeline chains several LAStools executables into one run.
//
// Each pipeline is a fixed list of stages. The files a stage writes are
// found by the next stage through hard-coded naming conventions (a temp
// tile base name plus per-stage appendices such as _g, _gh, _ght), so
// stages run strictly one after the other. The first stage that exits
// non-zero aborts the run; the temp-file cleanup only runs once every
// stage has succeeded.
package pipeline
