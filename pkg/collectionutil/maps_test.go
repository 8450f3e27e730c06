package collectionutil

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func Test_SortedKeys(t *testing.T) {
	cases := []struct {
		name  string
		input map[string]int
		want  []string
	}{
		{
			name:  "empty",
			input: map[string]int{},
			want:  []string{},
		},
		{
			name:  "sorted",
			input: map[string]int{"queue": 1, "avatars": 2, "jobs": 3},
			want:  []string{"avatars", "jobs", "queue"},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortedKeys(tt.input))
		})
	}
}
