package provider

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/klothoplatform/cdkbridge/pkg/collectionutil"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"github.com/r3labs/diff"
	"go.uber.org/zap"
)

var ErrSynthesisChanged = errors.New("synthesized template changed since it was merged")

// SynthesisChangedError is returned when the template is merged a second time after constructs changed
// the stack.
type SynthesisChangedError struct {
	// Paths are the changed locations in the template, eg `Resources.JobsQueue.Properties`.
	Paths []string
}

func (e *SynthesisChangedError) Error() string {
	if len(e.Paths) == 0 {
		return ErrSynthesisChanged.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSynthesisChanged, strings.Join(e.Paths, ", "))
}

func (e *SynthesisChangedError) Is(target error) bool {
	return target == ErrSynthesisChanged
}

// AppendCloudformationResources synthesizes the stack and deep-merges the template into the host's
// `resources` section. It is meant to run once per deployment: calling it again is a no-op if the
// template is unchanged and fails with [ErrSynthesisChanged] otherwise.
func (p *AwsProvider) AppendCloudformationResources() error {
	asm, err := p.app.Synth()
	if err != nil {
		return err
	}
	tmpl, err := asm.StackByName(p.stack.Name)
	if err != nil {
		return err
	}
	doc := map[string]any(tmpl)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.merged != nil {
		if reflect.DeepEqual(map[string]any(p.merged), doc) {
			p.log.Debug("template already merged")
			return nil
		}
		return &SynthesisChangedError{Paths: changedPaths(p.merged, doc)}
	}

	p.config.Resources = collectionutil.MergeMaps(p.config.Resources, doc)
	p.merged = tmpl

	p.log.Debug("merged template into resources", zap.Int("resources", len(tmpl.Resources())))
	return nil
}

func changedPaths(before, after map[string]any) []string {
	changes, err := diff.Diff(before, after)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{}, len(changes))
	for _, c := range changes {
		seen[strings.Join(c.Path, ".")] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// MergedTemplate is the template merged by [AwsProvider.AppendCloudformationResources], or nil.
func (p *AwsProvider) MergedTemplate() synth.Template {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.merged
}
