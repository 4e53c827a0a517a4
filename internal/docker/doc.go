// Package docker runs LAStools executables inside containers through the
// Docker Engine API, for hosts without a native LAStools installation.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Container labels recording which tool and run a container belongs to
//   - The per-invocation lifecycle: create, start, wait, logs, remove
//   - Listing and pruning managed containers left behind by a killed run
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
