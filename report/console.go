// Package report renders runner events for people and logs.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/eykd/pet-go/runner"
	"github.com/eykd/pet-go/scenario"
)

type palette struct {
	err     lipgloss.Style
	success lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
}

// ColorMode selects when output is styled.
type ColorMode int

const (
	// ColorNever writes plain text.
	ColorNever ColorMode = iota
	// ColorAuto styles output only when the writer is a color terminal.
	ColorAuto
	// ColorAlways styles output regardless of the writer.
	ColorAlways
)

// ParseColorMode maps "never", "auto" and "always" to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "never":
		return ColorNever, nil
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	default:
		return ColorNever, fmt.Errorf("unknown color mode %q", s)
	}
}

func newPalette(w io.Writer, mode ColorMode) palette {
	if mode == ColorNever {
		plain := lipgloss.NewStyle()
		return palette{err: plain, success: plain, info: plain, muted: plain}
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI)
	}
	return palette{
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		info:    r.NewStyle().Foreground(lipgloss.Color("5")),
		muted:   r.NewStyle().Faint(true),
	}
}

// paint styles text line by line so multi-line blocks are not padded to a
// common width.
func paint(s lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = s.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// Console writes human-readable progress and failure reports. It is safe for
// concurrent use.
type Console struct {
	mu        sync.Mutex
	w         io.Writer
	p         palette
	showSteps bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor sets the color mode. The default is ColorNever.
func WithColor(mode ColorMode) ConsoleOption {
	return func(c *Console) { c.p = newPalette(c.w, mode) }
}

// WithSteps controls whether each step is echoed as it starts.
func WithSteps(on bool) ConsoleOption {
	return func(c *Console) { c.showSteps = on }
}

// NewConsole returns a Console writing to w. Steps are echoed and color is
// off unless configured otherwise.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{w: w, p: newPalette(w, ColorNever), showSteps: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// FormatLine formats a step the way it is echoed: location> raw line.
func FormatLine(s scenario.Step) string {
	return fmt.Sprintf("%s> %s", s.Location, s.Raw)
}

// StepStart echoes the step.
func (c *Console) StepStart(s scenario.Step) {
	if !c.showSteps {
		return
	}
	c.printf("%s\n", FormatLine(s))
}

// ScenarioSuccess prints a PASS line.
func (c *Console) ScenarioSuccess(sc scenario.Scenario) {
	c.printf("%s\n", paint(c.p.success, fmt.Sprintf("PASS %s (%s)", sc.Name, sc.Location())))
}

// ScenarioFailure prints the failing step, the reason, the matched
// description, the state snapshot and, for panics, the stack.
func (c *Console) ScenarioFailure(sc scenario.Scenario, f *runner.StepFailure, snapshot map[string]any) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", paint(c.p.err, fmt.Sprintf("FAIL %s (%s)", sc.Name, sc.Location())))
	fmt.Fprintf(&b, "\n%s\n\n", paint(c.p.info, "Step failed:"))
	fmt.Fprintf(&b, "%s\n", paint(c.p.err, FormatLine(f.Step)))
	fmt.Fprintf(&b, "\n%s\n", paint(c.p.info, "Reason: "+f.Err.Error()))
	fmt.Fprintf(&b, "\n%s\n", paint(c.p.info, fmt.Sprintf("Failing step: '%s'", f.Step.Description)))
	fmt.Fprintf(&b, "\n%s\n%s", paint(c.p.info, "Context at point of failure:"), paint(c.p.muted, FormatContext(snapshot)))
	if len(f.Stack) > 0 {
		fmt.Fprintf(&b, "\n%s\n%s", paint(c.p.info, "Stacktrace:"), paint(c.p.muted, string(f.Stack)))
	}
	b.WriteString("\n")
	c.printf("%s", b.String())
}

// ScenarioSkipped prints a SKIP line.
func (c *Console) ScenarioSkipped(sc scenario.Scenario) {
	c.printf("%s\n", paint(c.p.muted, fmt.Sprintf("SKIP %s (%s)", sc.Name, sc.Location())))
}

// SuiteDone prints the totals.
func (c *Console) SuiteDone(sum runner.Summary) {
	if sum.OK() {
		c.printf("\n%s\n", paint(c.p.success, fmt.Sprintf("All tests run successfully! (%d scenarios in %s)",
			sum.Passed, sum.Duration.Round(time.Millisecond))))
		return
	}
	c.printf("\n%s\n", paint(c.p.err, fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		sum.Passed, sum.Failed, sum.Skipped, sum.Duration.Round(time.Millisecond))))
}

// FormatContext renders a state snapshot as YAML with sorted keys.
func FormatContext(snapshot map[string]any) string {
	if len(snapshot) == 0 {
		return "{}\n"
	}
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Sprintf("%v\n", snapshot)
	}
	return string(out)
}

var _ runner.SuiteReporter = (*Console)(nil)
