package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// CLIResult is the decoded JSON envelope of one automoc invocation.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON string `json:"-"`
}

// CLIError is the error object of a failed invocation.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning is one entry of the warnings array.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CLIMeta is the meta object of a successful invocation.
type CLIMeta struct {
	Count   int    `json:"count,omitempty"`
	Backing string `json:"backing,omitempty"`
	TookMs  int64  `json:"took_ms,omitempty"`
}

// The binary is built once per test process.
var cliBinary struct {
	mu   sync.Mutex
	path string
}

func automocBinary(t *testing.T) string {
	t.Helper()
	cliBinary.mu.Lock()
	defer cliBinary.mu.Unlock()

	if cliBinary.path != "" {
		if _, err := os.Stat(cliBinary.path); err == nil {
			return cliBinary.path
		}
		// Some CI runners clean the temp dir between packages.
		cliBinary.path = ""
	}

	root, err := moduleRoot()
	if err != nil {
		t.Fatalf("locate module root: %v", err)
	}
	dir, err := os.MkdirTemp("", "automoc-bin-*")
	if err != nil {
		t.Fatalf("temp dir for binary: %v", err)
	}
	name := "automoc"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	build := exec.Command("go", "build", "-o", out, "./cmd/automoc")
	build.Dir = root
	if output, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build automoc: %v\n%s", err, output)
	}
	cliBinary.path = out
	return out
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", dir)
		}
		dir = parent
	}
}

// RunCLI runs automoc in JSON mode against the vault. The global config
// file lives in the test's temp dir, never the user's.
func (v *TestVault) RunCLI(args ...string) *CLIResult {
	v.t.Helper()

	argv := append([]string{
		"--vault-path", v.Path,
		"--config", filepath.Join(v.t.TempDir(), "config.toml"),
		"--json",
	}, args...)

	// A non-zero exit still prints an envelope.
	output, _ := exec.Command(automocBinary(v.t), argv...).Output()

	r := &CLIResult{}
	if err := json.Unmarshal(output, r); err != nil {
		r.OK = false
		r.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: fmt.Sprintf("decode output: %v", err),
		}
	}
	r.RawJSON = string(output)
	return r
}

// MustSucceed stops the test unless the invocation succeeded.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if r.OK {
		return r
	}
	reason := "no error object"
	if r.Error != nil {
		reason = r.Error.Code + ": " + r.Error.Message
	}
	t.Fatalf("command failed: %s\noutput: %s", reason, r.RawJSON)
	return r
}

// MustFail stops the test unless the invocation failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("command succeeded, want %s\noutput: %s", code, r.RawJSON)
	case r.Error == nil:
		t.Fatalf("failure without error object, want %s\noutput: %s", code, r.RawJSON)
	case r.Error.Code != code:
		t.Fatalf("error code %s (%s), want %s\noutput: %s", r.Error.Code, r.Error.Message, code, r.RawJSON)
	}
	return r
}

// DataList returns data[key] when it is an array.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns data[key] when it is a string.
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
