package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	testCases := []struct {
		name       string
		input      Pagination
		want       Pagination
		wantOffset int
	}{
		{name: "defaults", input: Pagination{}, want: Pagination{Page: 1, Limit: 12}, wantOffset: 0},
		{name: "second page", input: Pagination{Page: 2, Limit: 10}, want: Pagination{Page: 2, Limit: 10}, wantOffset: 10},
		{name: "clamped", input: Pagination{Page: 1, Limit: 1000}, want: Pagination{Page: 1, Limit: MaxPageSize}, wantOffset: 0},
		{name: "negative", input: Pagination{Page: -3, Limit: -1}, want: Pagination{Page: 1, Limit: 12}, wantOffset: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.input
			p.Normalize(12)
			assert.Equal(t, tc.want, p)
			assert.Equal(t, tc.wantOffset, p.Offset())
		})
	}
}

func TestNewMetadata(t *testing.T) {
	assert.Equal(t, Metadata{Page: 1, Limit: 12, Total: 25, Pages: 3}, NewMetadata(Pagination{Page: 1, Limit: 12}, 25))
	assert.Equal(t, Metadata{Page: 1, Limit: 12, Total: 0, Pages: 0}, NewMetadata(Pagination{Page: 1, Limit: 12}, 0))
	assert.Equal(t, Metadata{Page: 2, Limit: 5, Total: 10, Pages: 2}, NewMetadata(Pagination{Page: 2, Limit: 5}, 10))
}
