// Package runner dispatches built command lines: it runs one LAStools
// executable to completion and hands back its exit status and merged
// console output.
//
// Three dispatchers implement the same interface:
//   - Local runs the executable as a child process of the CLI
//   - Docker runs it inside a container created from a LAStools image
//   - DryRun records the command without running anything
//
// The temp-file cleanup that ends most pipelines is not a LAStools
// executable. Every dispatcher handles it natively (see RemoveMatching)
// instead of shelling out to the Windows "del" builtin.
package runner
