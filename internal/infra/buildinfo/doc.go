// Package buildinfo exposes build information for the tracker binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/expense-tracker/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
