package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming(t *testing.T) {
	assert := assert.New(t)
	n := NewNaming("app", "dev")

	assert.Equal("app-dev", n.StackName())
	assert.Equal("app-dev-worker", n.DefaultFunctionName("worker"))
	assert.Equal("Worker", n.NormalizeName("worker"))
	assert.Equal("", n.NormalizeName(""))
	assert.Equal("Myqueue1", n.NormalizeNameToAlphaNumericOnly("my-queue_1"))
	assert.Equal("MyDashfnUnderscorex", n.GetNormalizedFunctionName("my-fn_x"))
	assert.Equal("JobsWorkerLambdaFunction", n.GetLambdaLogicalId("jobsWorker"))
	assert.Equal("JobsWorkerEventSourceMappingSQSJobsQueue", n.GetLambdaSqsEventLogicalId("jobsWorker", "jobs-Queue"))
}

func TestConfiguration_AddFunctionCopiesDefinition(t *testing.T) {
	assert := assert.New(t)
	cfg := &Configuration{Service: "app", Provider: ProviderConfig{Stage: "dev"}}
	def := map[string]any{"handler": "worker.handler"}

	cfg.AddFunction("worker", def)
	assert.Equal(map[string]any{"handler": "worker.handler"}, def)

	cfg.Functions["worker"]["handler"] = "other.handler"
	assert.Equal("worker.handler", def["handler"])
}

func TestConfiguration_AddFunction(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]map[string]any
		add      string
		def      map[string]any
		want     map[string]map[string]any
	}{
		{
			name: "bootstraps missing functions",
			add:  "worker",
			def:  map[string]any{"handler": "worker.handler"},
			want: map[string]map[string]any{
				"worker": {"handler": "worker.handler", "name": "app-dev-worker", "events": []any{}},
			},
		},
		{
			name: "normalizes earlier functions",
			existing: map[string]map[string]any{
				"hello": {"handler": "hello.handler"},
				"named": {"handler": "named.handler", "name": "custom", "events": []any{"e"}},
			},
			add: "worker",
			def: map[string]any{"handler": "worker.handler"},
			want: map[string]map[string]any{
				"hello":  {"handler": "hello.handler", "name": "app-dev-hello", "events": []any{}},
				"named":  {"handler": "named.handler", "name": "custom", "events": []any{"e"}},
				"worker": {"handler": "worker.handler", "name": "app-dev-worker", "events": []any{}},
			},
		},
		{
			name: "last write wins",
			existing: map[string]map[string]any{
				"worker": {"handler": "old.handler", "name": "old"},
			},
			add: "worker",
			def: map[string]any{"handler": "new.handler"},
			want: map[string]map[string]any{
				"worker": {"handler": "new.handler", "name": "app-dev-worker", "events": []any{}},
			},
		},
		{
			name: "nil definition",
			add:  "empty",
			want: map[string]map[string]any{
				"empty": {"name": "app-dev-empty", "events": []any{}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Configuration{Service: "app", Provider: ProviderConfig{Stage: "dev"}, Functions: tt.existing}
			cfg.AddFunction(tt.add, tt.def)
			assert.Equal(t, tt.want, cfg.Functions)
		})
	}
}
