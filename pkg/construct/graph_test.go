package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(ns, name, typ string) *Resource {
	return &Resource{ID: ResourceId{Namespace: ns, Name: name}, Type: typ}
}

func TestAddResource(t *testing.T) {
	tests := []struct {
		name     string
		existing []*Resource
		add      *Resource
		wantErr  error
	}{
		{
			name: "first resource",
			add:  res("jobs", "Queue", "AWS::SQS::Queue"),
		},
		{
			name:     "same id",
			existing: []*Resource{res("jobs", "Queue", "AWS::SQS::Queue")},
			add:      res("jobs", "Queue", "AWS::SQS::Queue"),
			wantErr:  ErrDuplicateResource,
		},
		{
			name:     "same logical id",
			existing: []*Resource{res("my-jobs", "Queue", "AWS::SQS::Queue")},
			add:      res("my_jobs", "Queue", "AWS::SQS::Queue"),
			wantErr:  ErrDuplicateResource,
		},
		{
			name:     "distinct ids",
			existing: []*Resource{res("jobs", "Queue", "AWS::SQS::Queue")},
			add:      res("jobs", "Dlq", "AWS::SQS::Queue"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			g := NewGraph()
			for _, r := range tt.existing {
				require.NoError(t, AddResource(g, r))
			}

			err := AddResource(g, tt.add)
			if tt.wantErr != nil {
				assert.ErrorIs(err, tt.wantErr)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestAddDependency(t *testing.T) {
	assert := assert.New(t)
	g := NewGraph()
	queue := res("jobs", "Queue", "AWS::SQS::Queue")
	dlq := res("jobs", "Dlq", "AWS::SQS::Queue")
	policy := res("jobs", "Policy", "AWS::SQS::QueuePolicy")
	for _, r := range []*Resource{queue, dlq, policy} {
		require.NoError(t, AddResource(g, r))
	}

	assert.NoError(AddDependency(g, queue.ID, dlq.ID))
	assert.NoError(AddDependency(g, policy.ID, queue.ID))
	assert.NoError(AddDependency(g, policy.ID, dlq.ID))
	// idempotent
	assert.NoError(AddDependency(g, queue.ID, dlq.ID))

	assert.Error(AddDependency(g, dlq.ID, policy.ID), "cycle must be rejected")

	deps, err := Dependencies(g, policy.ID)
	if assert.NoError(err) {
		assert.Equal([]ResourceId{dlq.ID, queue.ID}, deps)
	}

	topo, err := TopologicalSort(g)
	if assert.NoError(err) {
		assert.Equal([]ResourceId{policy.ID, queue.ID, dlq.ID}, topo)
	}
}

func TestGraphBatch(t *testing.T) {
	assert := assert.New(t)
	g := NewGraph()
	b := NewGraphBatch(g)

	a := res("", "A", "AWS::SNS::Topic")
	bad := res("", "B$", "AWS::SNS::Topic")
	c := res("", "C", "AWS::SNS::Topic")
	b.AddResources(a, bad, c)
	b.AddDependencies(a.ID, bad.ID, c.ID)

	assert.Error(b.Err)
	order, err := g.Order()
	assert.NoError(err)
	assert.Equal(2, order)

	deps, err := Dependencies(g, a.ID)
	if assert.NoError(err) {
		assert.Equal([]ResourceId{c.ID}, deps)
	}
}

func TestGraphBatchRollback(t *testing.T) {
	assert := assert.New(t)
	g := NewGraph()
	existing := res("app", "Topic", "AWS::SNS::Topic")
	require.NoError(t, AddResource(g, existing))

	b := NewGraphBatch(g)
	queue := res("jobs", "Queue", "AWS::SQS::Queue")
	dlq := res("jobs", "Dlq", "AWS::SQS::Queue")
	conflict := res("", "AppTopic", "AWS::SNS::Topic")
	b.AddResources(queue, dlq, conflict)
	b.AddDependencies(queue.ID, dlq.ID)
	b.AddDependencies(existing.ID, queue.ID)
	assert.ErrorIs(b.Err, ErrDuplicateResource)

	require.NoError(t, b.Rollback())
	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(1, order)
	size, err := g.Size()
	require.NoError(t, err)
	assert.Zero(size)

	// the removed ids can be added again
	assert.NoError(AddResource(g, queue))
}

func TestString(t *testing.T) {
	g := NewGraph()
	require.NoError(t, AddResource(g, res("", "A", "AWS::SNS::Topic")))
	require.NoError(t, AddResource(g, res("", "B", "AWS::SQS::Queue")))
	require.NoError(t, AddDependency(g, ResourceId{Name: "A"}, ResourceId{Name: "B"}))

	s, err := String(g)
	assert.NoError(t, err)
	assert.Equal(t, "\"A\" (AWS::SNS::Topic) -> \"B\"\n\"B\" (AWS::SQS::Queue)\n", s)
}
