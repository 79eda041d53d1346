package crs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSignatures(t *testing.T) {
	sig := Signature()

	tests := []struct {
		name string
		data []byte
		want []int
	}{
		{
			name: "no matches",
			data: []byte("nothing to see here"),
			want: nil,
		},
		{
			name: "empty buffer",
			data: nil,
			want: nil,
		},
		{
			name: "single match at start",
			data: []byte("MDmd....."),
			want: []int{0},
		},
		{
			name: "match at buffer end",
			data: []byte(".....MDmd"),
			want: []int{5},
		},
		{
			name: "multiple matches",
			data: []byte("MDmd..MDmd....MDmd"),
			want: []int{0, 6, 14},
		},
		{
			name: "partial signature ignored",
			data: []byte("MDm.MDmdMD"),
			want: []int{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSignatures(tt.data, sig))
		})
	}
}

func TestFindSignaturesOverlapping(t *testing.T) {
	// The cursor advances one byte per hit, so self-overlapping
	// patterns report every occurrence.
	got := FindSignatures([]byte("aaaaa"), []byte("aaa"))
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestSpans(t *testing.T) {
	spans := Spans([]int{4, 10, 30}, 50)
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Start: 4, End: 10}, spans[0])
	assert.Equal(t, Span{Start: 10, End: 30}, spans[1])
	assert.Equal(t, Span{Start: 30, End: 50}, spans[2])
}

func TestSpansEmpty(t *testing.T) {
	assert.Empty(t, Spans(nil, 100))
}
