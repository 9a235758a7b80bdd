package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/eykd/pet-go/scenario"
)

func executeCheck(t *testing.T, m *mockScenarioIO, args ...string) (string, error) {
	t.Helper()
	c := NewCheckCmd(newTestRegistry(t), m)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(new(bytes.Buffer))
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestNewCheckCmd_HasJSONFlag(t *testing.T) {
	c := NewCheckCmd(newTestRegistry(t), newMockScenarioIO())
	if c.Flags().Lookup("json") == nil {
		t.Error("expected --json flag on check command")
	}
}

func TestCheckCmd_Clean(t *testing.T) {
	m := newMockScenarioIO().add("a.pet", passingScenario).add("b.pet", failingScenario)

	out, err := executeCheck(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "2 files, 2 scenarios, 0 problems\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if want := []string{"."}; !slices.Equal(m.searched, want) {
		t.Errorf("searched = %v, want %v", m.searched, want)
	}
}

func TestCheckCmd_DoesNotRunSteps(t *testing.T) {
	m := newMockScenarioIO().add("a.pet", failingScenario)

	out, err := executeCheck(t, m, "a.pet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "FAIL") {
		t.Errorf("stdout = %q, want no scenario results", out)
	}
}

func TestCheckCmd_ReportsEveryFile(t *testing.T) {
	m := newMockScenarioIO().
		add("a.pet", "test \"broken\"\n  given I juggle\n").
		add("b.pet", "oops\n").
		add("c.pet", "test \"empty\"\n").
		add("d.pet", passingScenario)
	m.readErr["d.pet"] = errBoom

	out, err := executeCheck(t, m)
	if err == nil {
		t.Fatal("expected error when files have errors")
	}
	for _, want := range []string{
		"a.pet:2 PETE002 error",
		"b.pet:1 PETE001 error",
		"c.pet:1 PETW001 warning",
		"PETE005 error reading d.pet: boom",
		"4 files, 1 scenarios, 4 problems",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, want to contain %q", out, want)
		}
	}
}

func TestCheckCmd_WarningsOnlyExitZero(t *testing.T) {
	m := newMockScenarioIO().add("a.pet", "test \"empty\"\n")

	if _, err := executeCheck(t, m); err != nil {
		t.Fatalf("unexpected error for warnings only: %v", err)
	}
}

func TestCheckCmd_JSON(t *testing.T) {
	m := newMockScenarioIO().add("a.pet", "test \"x\"\ntest \"x\"\n  given I print 1\n")

	out, err := executeCheck(t, m, "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []CheckDiagnosticJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	want := []CheckDiagnosticJSON{
		{Code: scenario.CodeEmptyScenario, Severity: "warning", Message: `scenario "x" has no steps`, Location: "a.pet:1"},
		{Code: scenario.CodeDuplicateScenario, Severity: "warning", Message: `scenario "x" is declared more than once`, Location: "a.pet:2"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("diagnostics = %+v, want %+v", got, want)
	}
}

func TestCheckCmd_JSONEmptyArray(t *testing.T) {
	m := newMockScenarioIO().add("a.pet", passingScenario)

	out, err := executeCheck(t, m, "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("stdout = %q, want []", out)
	}
}

func TestCheckCmd_FindError(t *testing.T) {
	m := newMockScenarioIO()
	m.findErr = errBoom

	if _, err := executeCheck(t, m); !errors.Is(err, errBoom) {
		t.Errorf("error = %v, want find error", err)
	}
}
