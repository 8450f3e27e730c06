package synth

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// App is the synthesis root. It owns its stacks and the token table shared by them.
type App struct {
	log    *zap.Logger
	tokens *tokenTable

	mu     sync.Mutex // guards stacks
	stacks map[string]*Stack
}

var (
	ErrDuplicateStack = errors.New("duplicate stack")
	ErrStackNotFound  = errors.New("stack not found")

	stackNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{0,127}$`)
)

func NewApp(log *zap.Logger) *App {
	if log == nil {
		log = zap.L()
	}
	return &App{
		log:    log.Named("synth"),
		tokens: &tokenTable{},
		stacks: make(map[string]*Stack),
	}
}

func (a *App) NewStack(name string, region string) (*Stack, error) {
	if !stackNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid stack name %q (must match %s)", name, stackNamePattern)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.stacks[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateStack, name)
	}
	s := newStack(a, name, region)
	a.stacks[name] = s
	return s, nil
}

func (a *App) Stack(name string) (*Stack, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.stacks[name]
	return s, ok
}

// Assembly is the result of synthesizing every stack of an app.
type Assembly struct {
	Templates map[string]Template
}

// StackByName returns the synthesized template of a stack.
func (a *Assembly) StackByName(name string) (Template, error) {
	t, ok := a.Templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, name)
	}
	return t, nil
}

func (a *App) Synth() (*Assembly, error) {
	a.mu.Lock()
	names := make([]string, 0, len(a.stacks))
	for name := range a.stacks {
		names = append(names, name)
	}
	a.mu.Unlock()
	sort.Strings(names)

	asm := &Assembly{Templates: make(map[string]Template, len(names))}
	var errs error
	for _, name := range names {
		s, _ := a.Stack(name)
		t, err := s.Synthesize()
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("could not synthesize stack %s: %w", name, err))
			continue
		}
		asm.Templates[name] = t
	}
	return asm, errs
}
