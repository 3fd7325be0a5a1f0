package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_LinkerValuesWin(t *testing.T) {
	oldCommit, oldTime := Commit, BuildTime
	t.Cleanup(func() { Commit, BuildTime = oldCommit, oldTime })

	Commit, BuildTime = "abc123", "2026-01-02T03:04:05Z"
	info := Get()
	if info.Commit != "abc123" || info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v, want linker values", info)
	}
	if s := String(); s != Version+" (abc123) built at 2026-01-02T03:04:05Z" {
		t.Errorf("String() = %q", s)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef0123"); got != "0123456789ab" {
		t.Errorf("shortRevision(long) = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision(short) = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent("tracker-cli"); got != "tracker-cli/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
