package cmd

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/eykd/pet-go/internal/config"
	"github.com/eykd/pet-go/internal/steps"
	"github.com/eykd/pet-go/step"
)

// newTestRegistry returns a frozen registry holding the sample steps.
func newTestRegistry(t *testing.T) *step.Registry {
	t.Helper()
	reg := step.NewRegistry()
	if err := steps.Register(reg); err != nil {
		t.Fatalf("registering steps: %v", err)
	}
	reg.Freeze()
	return reg
}

// mockScenarioIO is a test double for RunIO, ParseIO and CheckIO. Files are
// served from memory; FindScenarios returns them in insertion order.
type mockScenarioIO struct {
	cfg     config.Config
	cfgErr  error
	findErr error
	order   []string
	files   map[string]string
	readErr map[string]error

	loadedConfig string
	searched     []string
	reads        int
}

func newMockScenarioIO() *mockScenarioIO {
	return &mockScenarioIO{
		cfg:     config.Default(),
		files:   make(map[string]string),
		readErr: make(map[string]error),
	}
}

func (m *mockScenarioIO) add(path, content string) *mockScenarioIO {
	m.order = append(m.order, path)
	m.files[path] = content
	return m
}

func (m *mockScenarioIO) LoadConfig(_ context.Context, path string) (config.Config, error) {
	m.loadedConfig = path
	return m.cfg, m.cfgErr
}

func (m *mockScenarioIO) FindScenarios(_ context.Context, paths []string) ([]string, error) {
	m.searched = paths
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.order, nil
}

func (m *mockScenarioIO) ReadScenario(_ context.Context, path string) ([]byte, error) {
	m.reads++
	if err, ok := m.readErr[path]; ok {
		return nil, err
	}
	content, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

var errBoom = errors.New("boom")

func nopHandler(context.Context, *step.State, step.Args) error { return nil }
