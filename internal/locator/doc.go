// Package locator resolves the LAStools installation and the executables
// inside it.
//
// The toolbox binary ships inside the LAStools tree
// (<lastools>\ArcGIS_toolbox\<dir>\lastools-toolbox.exe), so the install
// root is found three directory levels above the running executable,
// unless a configuration override names it explicitly. Executables live in
// the root's bin directory.
//
// LAStools' own argument parser cannot cope with install paths that
// contain spaces or parentheses, so such roots are rejected up front,
// before any process is spawned.
package locator
