package synth

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"github.com/klothoplatform/cdkbridge/pkg/logging"
	"go.uber.org/zap"
)

type (
	// Stack is the single deployment scope constructs add their resources to.
	Stack struct {
		Name   string
		Region string

		app   *App
		log   *zap.Logger
		graph construct.Graph

		mu         sync.Mutex // guards the following fields
		outputs    map[string]*Output
		conditions map[string]any
	}

	// Output is a named value exported by the stack. Before deployment its value is the (possibly
	// unresolvable) template expression, after deployment it is looked up from the deployed stack.
	Output struct {
		ID          construct.ResourceId
		Value       any
		Description string
		ExportName  string
	}

	// Template is a rendered CloudFormation template. It only contains generic values
	// (`map[string]any`, `[]any` and scalars).
	Template map[string]any
)

var ErrDuplicateOutput = errors.New("duplicate output")

func newStack(app *App, name, region string) *Stack {
	return &Stack{
		Name:       name,
		Region:     region,
		app:        app,
		log:        app.log.With(zap.String("stack", name)),
		graph:      construct.NewGraph(),
		outputs:    make(map[string]*Output),
		conditions: make(map[string]any),
	}
}

// Resources returns the `Resources` section of the template.
func (t Template) Resources() map[string]any {
	r, _ := t["Resources"].(map[string]any)
	return r
}

func (o *Output) LogicalId() string {
	return o.ID.LogicalId()
}

func (s *Stack) App() *App {
	return s.app
}

func (s *Stack) Graph() construct.Graph {
	return s.graph
}

func (s *Stack) AddResource(r *construct.Resource) error {
	if err := construct.AddResource(s.graph, r); err != nil {
		return err
	}
	s.log.Debug("added resource", logging.ResourceField(r))
	return nil
}

// AddDependency renders `DependsOn: [to]` on `from`.
func (s *Stack) AddDependency(from, to construct.ResourceId) error {
	return construct.AddDependency(s.graph, from, to)
}

func (s *Stack) AddOutput(o *Output) error {
	if err := o.ID.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := o.LogicalId()
	if _, ok := s.outputs[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOutput, key)
	}
	s.outputs[key] = o
	return nil
}

// Output returns the output with the given logical id.
// Outputs returns all outputs sorted by logical id.
func (s *Stack) Outputs() []*Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	outputs := make([]*Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		outputs = append(outputs, o)
	}
	sort.Slice(outputs, func(i, j int) bool {
		return outputs[i].LogicalId() < outputs[j].LogicalId()
	})
	return outputs
}

// AddCondition adds a template condition. Re-adding the same name replaces the expression.
func (s *Stack) AddCondition(name string, expression any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions[name] = expression
}

// Synthesize renders the stack's resources, outputs and conditions into a template.
func (s *Stack) Synthesize() (Template, error) {
	ids, err := construct.TopologicalSort(s.graph)
	if err != nil {
		return nil, fmt.Errorf("could not sort resources: %w", err)
	}

	resources := make(map[string]any, len(ids))
	for _, id := range ids {
		r, err := s.graph.Vertex(id)
		if err != nil {
			return nil, err
		}
		body := map[string]any{"Type": r.Type}
		if len(r.Properties) > 0 {
			body["Properties"] = s.Resolve(r.Properties)
		}
		deps, err := construct.Dependencies(s.graph, id)
		if err != nil {
			return nil, err
		}
		if len(deps) > 0 {
			dependsOn := make([]any, len(deps))
			for i, dep := range deps {
				dependsOn[i] = dep.LogicalId()
			}
			body["DependsOn"] = dependsOn
		}
		if r.DeletionPolicy != "" {
			body["DeletionPolicy"] = r.DeletionPolicy
		}
		if r.UpdateReplacePolicy != "" {
			body["UpdateReplacePolicy"] = r.UpdateReplacePolicy
		}
		resources[id.LogicalId()] = body
	}

	t := Template{"Resources": resources}

	if outputs := s.Outputs(); len(outputs) > 0 {
		rendered := make(map[string]any, len(outputs))
		for _, o := range outputs {
			body := map[string]any{"Value": s.Resolve(o.Value)}
			if o.Description != "" {
				body["Description"] = o.Description
			}
			if o.ExportName != "" {
				body["Export"] = map[string]any{"Name": o.ExportName}
			}
			rendered[o.LogicalId()] = body
		}
		t["Outputs"] = rendered
	}

	s.mu.Lock()
	if len(s.conditions) > 0 {
		conditions := make(map[string]any, len(s.conditions))
		for name, expr := range s.conditions {
			conditions[name] = s.Resolve(expr)
		}
		t["Conditions"] = conditions
	}
	s.mu.Unlock()

	if ce := s.log.Check(zap.DebugLevel, "synthesized stack"); ce != nil {
		graphStr, _ := construct.String(s.graph)
		ce.Write(zap.Int("resources", len(resources)), zap.String("graph", graphStr))
	}
	return t, nil
}
