// Package conformance_test runs the fixtures under testdata/ against the pet
// binary as a subprocess.
//
// TestMain builds pet once into a temporary directory before any test runs,
// then removes the directory on exit.
package conformance_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// petBinary is the absolute path to the compiled pet binary, set by TestMain.
var petBinary string

// fixturesRoot holds one directory per fixture.
const fixturesRoot = "testdata"

// fixtureFile is the name of the expectations file in each fixture directory.
const fixtureFile = "fixture.json"

// TestMain builds the pet binary to a temporary directory (avoiding binary
// path races between parallel test processes) and runs all tests.
func TestMain(m *testing.M) {
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		fmt.Fprintf(os.Stderr, "filepath.Abs: %v\n", err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "conformance-pet-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "os.MkdirTemp: %v\n", err)
		os.Exit(1)
	}

	petBinary = filepath.Join(tmpDir, "pet")
	build := exec.Command("go", "build", "-o", petBinary, ".")
	build.Dir = repoRoot
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "go build failed: %v\n%s\n", err, out)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// fixture describes one invocation of pet and what it must produce.
type fixture struct {
	// Args are passed to pet; the working directory is the fixture directory.
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	// StdoutContains and StderrContains must each appear verbatim.
	StdoutContains []string `json:"stdout_contains"`
	StdoutExcludes []string `json:"stdout_excludes"`
	StderrContains []string `json:"stderr_contains"`
	// StdoutJSON, when set, must be a recursive subset of stdout parsed as JSON.
	StdoutJSON json.RawMessage `json:"stdout_json"`
}

// TestConformance_Fixtures runs every fixture directory under testdata/.
func TestConformance_Fixtures(t *testing.T) {
	entries, err := os.ReadDir(fixturesRoot)
	if err != nil {
		t.Fatalf("os.ReadDir(%s): %v", fixturesRoot, err)
	}

	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(fixturesRoot, entry.Name())
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, dir)
		})
		ran++
	}
	if ran == 0 {
		t.Fatal("no fixtures found")
	}
}

// runFixture invokes pet for a single fixture and checks its expectations.
func runFixture(t *testing.T, dir string) {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join(dir, fixtureFile))
	if err != nil {
		t.Skipf("%s missing; skipping", fixtureFile)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("parse %s: %v", fixtureFile, err)
	}

	cmd := exec.Command(petBinary, fx.Args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 10 * time.Second

	runErr := cmd.Run()
	exitCode := 0
	var exitErr *exec.ExitError
	switch {
	case errors.As(runErr, &exitErr):
		exitCode = exitErr.ExitCode()
	case runErr != nil:
		t.Fatalf("pet %s: %v", strings.Join(fx.Args, " "), runErr)
	}

	if exitCode != fx.ExitCode {
		t.Errorf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", exitCode, fx.ExitCode, stdout.String(), stderr.String())
	}
	for _, want := range fx.StdoutContains {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q\nstdout:\n%s", want, stdout.String())
		}
	}
	for _, unwanted := range fx.StdoutExcludes {
		if strings.Contains(stdout.String(), unwanted) {
			t.Errorf("stdout unexpectedly contains %q\nstdout:\n%s", unwanted, stdout.String())
		}
	}
	for _, want := range fx.StderrContains {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q\nstderr:\n%s", want, stderr.String())
		}
	}
	if len(fx.StdoutJSON) > 0 {
		checkJSONSubset(t, "stdout", fx.StdoutJSON, stdout.Bytes())
	}
}

// ---------------------------------------------------------------------------
// Assertion helpers
// ---------------------------------------------------------------------------

// checkJSONSubset asserts that every key-value pair in expectedJSON also
// appears in actualJSON.
func checkJSONSubset(t *testing.T, label string, expectedJSON, actualJSON []byte) {
	t.Helper()
	var expected, actual any
	if err := json.Unmarshal(expectedJSON, &expected); err != nil {
		t.Errorf("%s: unmarshal expected JSON: %v", label, err)
		return
	}
	if err := json.Unmarshal(actualJSON, &actual); err != nil {
		t.Errorf("%s: unmarshal actual JSON: %v\n%s", label, err, actualJSON)
		return
	}
	jsonSubsetEqual(t, label, expected, actual)
}

// jsonSubsetEqual recursively checks that expected is a subset of actual.
// Arrays must have equal length; objects may carry extra keys.
func jsonSubsetEqual(t *testing.T, path string, expected, actual any) bool {
	t.Helper()
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			t.Errorf("%s: expected JSON object, got %T (%v)", path, actual, actual)
			return false
		}
		allOK := true
		for k, ev := range e {
			av, exists := a[k]
			if !exists {
				t.Errorf("%s.%s: key missing in actual", path, k)
				allOK = false
				continue
			}
			if !jsonSubsetEqual(t, path+"."+k, ev, av) {
				allOK = false
			}
		}
		return allOK
	case []any:
		a, ok := actual.([]any)
		if !ok {
			t.Errorf("%s: expected JSON array, got %T (%v)", path, actual, actual)
			return false
		}
		if len(e) != len(a) {
			t.Errorf("%s: array length: expected %d, got %d", path, len(e), len(a))
			return false
		}
		allOK := true
		for i := range e {
			if !jsonSubsetEqual(t, fmt.Sprintf("%s[%d]", path, i), e[i], a[i]) {
				allOK = false
			}
		}
		return allOK
	case nil:
		if actual != nil {
			t.Errorf("%s: expected null, got %v", path, actual)
			return false
		}
		return true
	default:
		if expected != actual {
			t.Errorf("%s: expected %v (%T), got %v (%T)", path, expected, expected, actual, actual)
			return false
		}
		return true
	}
}
