// Package buildinfo provides build-time version information.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/civ7save-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Without ldflags, Version and Commit fall back to what the Go toolchain
// recorded in the binary (module version and vcs.revision).
package buildinfo
