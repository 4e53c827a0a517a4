// Package toolbox maps ArcGIS geoprocessing arguments onto LAStools
// command lines.
//
// Every script tool of the LAStools ArcGIS toolbox is described here as a
// Tool: the executable it runs and an ordered Schema of named parameters.
// Parameter N of the schema consumes positional argument N of the dialog;
// the trailing argument is always the verbose checkbox. Parsing turns the
// raw argument vector (or a JSONC parameter file) into named, validated
// values once; building then walks the schema and lets each parameter emit
// its tokens.
//
// Parameter kinds cover the recurring dialog idioms: an input file, a
// folder plus wildcards, a numeric value omitted when it equals its
// default, a checkbox, a drop-down mapped through a fixed table, output
// file/directory/appendix, a core count and a free-form "additional
// options" string. Multi-slot dialog logic (hillshade lighting, projection
// settings) is expressed with Custom parameters reading companion values.
package toolbox
