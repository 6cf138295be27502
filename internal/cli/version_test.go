package cli

import (
	"runtime/debug"
	"testing"
)

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "devel"},
		{"(devel)", "devel"},
		{"v1.2.3", "1.2.3"},
		{"0.4.0", "0.4.0"},
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.in); got != tt.want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrentVersionInfoUsesBuildSettings(t *testing.T) {
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.24.0",
			Main:      debug.Module{Path: "github.com/aidanlsb/automoc", Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	info := currentVersionInfo()
	if info.Version != "0.3.1" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc123" || !info.Modified {
		t.Errorf("unexpected vcs info: %+v", info)
	}
	if info.GoVersion != "go1.24.0" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}
