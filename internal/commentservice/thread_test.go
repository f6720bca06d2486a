package commentservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intptr(i int) *int {
	return &i
}

// shape renders a thread as nested ids for easy comparison.
type shape struct {
	ID      int
	Replies []shape
}

func toShape(comments []*Comment) []shape {
	out := []shape{}
	for _, c := range comments {
		out = append(out, shape{ID: c.ID, Replies: toShape(c.Replies)})
	}
	return out
}

func TestBuildThread(t *testing.T) {
	testCases := []struct {
		name  string
		input []*Comment
		want  []shape
	}{
		{
			name:  "empty",
			input: nil,
			want:  []shape{},
		},
		{
			name: "flat roots keep order",
			input: []*Comment{
				{ID: 1}, {ID: 2}, {ID: 3},
			},
			want: []shape{{ID: 1, Replies: []shape{}}, {ID: 2, Replies: []shape{}}, {ID: 3, Replies: []shape{}}},
		},
		{
			name: "nested replies",
			input: []*Comment{
				{ID: 1},
				{ID: 2, ParentID: intptr(1)},
				{ID: 3},
				{ID: 4, ParentID: intptr(2)},
				{ID: 5, ParentID: intptr(1)},
			},
			want: []shape{
				{ID: 1, Replies: []shape{
					{ID: 2, Replies: []shape{{ID: 4, Replies: []shape{}}}},
					{ID: 5, Replies: []shape{}},
				}},
				{ID: 3, Replies: []shape{}},
			},
		},
		{
			name: "orphans dropped",
			input: []*Comment{
				{ID: 1},
				{ID: 3, ParentID: intptr(2)},
				{ID: 4, ParentID: intptr(3)},
			},
			want: []shape{{ID: 1, Replies: []shape{}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toShape(BuildThread(tc.input)))
		})
	}
}
