package step

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/eykd/pet-go/pattern"
)

// ErrFrozen is returned by Register once the registry has been frozen.
var ErrFrozen = errors.New("step registry is frozen")

// Definition is one registered step.
type Definition struct {
	Description string
	Pattern     *pattern.Pattern
	Handler     Handler
}

// Match is the result of resolving a line against the registry.
type Match struct {
	Definition *Definition
	Args       Args
}

// Registry is an ordered, append-only collection of step definitions.
// Populate it during setup, call Freeze, then hand it to the parser.
// Resolution is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	defs   []*Definition
	frozen bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register compiles description and appends a definition for h.
func (r *Registry) Register(description string, h Handler) error {
	if description == "" {
		return errors.New("step description must not be empty")
	}
	if h == nil {
		return fmt.Errorf("step %q: nil handler", description)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("registering %q: %w", description, ErrFrozen)
	}
	r.defs = append(r.defs, &Definition{
		Description: description,
		Pattern:     pattern.Compile(description),
		Handler:     h,
	})
	return nil
}

// MustRegister is like Register but panics on error. Intended for step
// libraries that register at setup time.
func (r *Registry) MustRegister(description string, h Handler) {
	if err := r.Register(description, h); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only. Freezing twice is harmless.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Definition(nil), r.defs...)
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Resolve finds the first definition, in registration order, whose pattern
// matches the whole line, and coerces its captures. ok is false when nothing
// matches; a matching step with no placeholders has ok true and empty Args.
// err is non-nil only for a malformed literal.
//
// Overlapping patterns are not detected: the earliest registration wins.
func (r *Registry) Resolve(line string) (Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.defs {
		tokens, matched := def.Pattern.Match(line)
		if !matched {
			continue
		}
		lits, err := pattern.CoerceAll(tokens)
		if err != nil {
			return Match{}, false, err
		}
		return Match{Definition: def, Args: Args(lits)}, true, nil
	}
	return Match{}, false, nil
}

// Suggest returns the registered description closest to line by edit
// distance, for "did you mean" diagnostics. Literals in line and
// placeholders in descriptions are compared as equal. ok is false if nothing is
// reasonably close.
func (r *Registry) Suggest(line string) (description string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shape := pattern.LineSkeleton(line)
	best := -1
	for _, def := range r.defs {
		skel := def.Pattern.Skeleton()
		d := fuzzy.LevenshteinDistance(shape, skel)
		if d > max(len(shape), len(skel))/2 {
			continue
		}
		if best < 0 || d < best {
			best = d
			description = def.Description
		}
	}
	return description, best >= 0
}
