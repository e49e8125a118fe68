package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name        string
		window      TimeWindow
		granularity int
		want        []int
	}{
		{
			name:        "exact fit",
			window:      TimeWindow{Start: 540, End: 660},
			granularity: 30,
			want:        []int{540, 570, 600, 630},
		},
		{
			name:        "trailing partial interval dropped",
			window:      TimeWindow{Start: 540, End: 650},
			granularity: 30,
			want:        []int{540, 570, 600},
		},
		{
			name:        "window shorter than one slot",
			window:      TimeWindow{Start: 540, End: 555},
			granularity: 30,
			want:        nil,
		},
		{
			name:        "empty window",
			window:      TimeWindow{Start: 540, End: 540},
			granularity: 30,
			want:        nil,
		},
		{
			name:        "inverted window",
			window:      TimeWindow{Start: 600, End: 540},
			granularity: 30,
			want:        nil,
		},
		{
			name:        "hour granularity",
			window:      TimeWindow{Start: 480, End: 720},
			granularity: 60,
			want:        []int{480, 540, 600, 660},
		},
		{
			name:        "non-positive granularity",
			window:      TimeWindow{Start: 540, End: 660},
			granularity: 0,
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlots(tt.window, tt.granularity))
		})
	}
}

func TestGenerateBlocksTagsWindowIndex(t *testing.T) {
	windows := []TimeWindow{
		{Start: 540, End: 600},  // morning
		{Start: 780, End: 840},  // afternoon
	}
	got := generateBlocks(windows, 30)

	assert.Equal(t, []blockSlot{
		{start: 540, block: 0},
		{start: 570, block: 0},
		{start: 780, block: 1},
		{start: 810, block: 1},
	}, got)
}

func TestGenerateBlocksDropsDuplicateStarts(t *testing.T) {
	// Overlapping windows should not yield the same start twice.
	windows := []TimeWindow{
		{Start: 540, End: 630},
		{Start: 570, End: 660},
	}
	got := generateBlocks(windows, 30)

	starts := make([]int, len(got))
	for i, s := range got {
		starts[i] = s.start
	}
	assert.Equal(t, []int{540, 570, 600, 630}, starts)
	// The duplicated starts keep the earlier window's block index.
	assert.Equal(t, 0, got[1].block)
}
