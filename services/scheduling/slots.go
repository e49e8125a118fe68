package scheduling

// DefaultGranularity is the slot step in minutes when none is configured.
const DefaultGranularity = 30

// TimeWindow is one contiguous availability interval within a day, in
// minutes from midnight. Weekly windows and date overrides both normalize
// to this before slot generation.
type TimeWindow struct {
	Start int
	End   int
}

// GenerateSlots expands a window into quantized slot start times: one every
// granularity minutes while the full slot still fits inside the window.
// Trailing partial intervals are dropped. Pure; no I/O.
func GenerateSlots(w TimeWindow, granularity int) []int {
	if granularity <= 0 || w.End <= w.Start {
		return nil
	}
	var starts []int
	for t := w.Start; t+granularity <= w.End; t += granularity {
		starts = append(starts, t)
	}
	return starts
}

// blockSlot pairs a generated start time with the index of the window it
// came from, so renderers can show a break divider between blocks.
type blockSlot struct {
	start int
	block int
}

// generateBlocks runs GenerateSlots over each window in order and
// concatenates the results, tagging each start with its window index.
// Windows are expected sorted by start; overlapping windows are tolerated
// (the schedule editor validates at write time) and duplicate start times
// are dropped, keeping the earliest block.
func generateBlocks(windows []TimeWindow, granularity int) []blockSlot {
	var out []blockSlot
	seen := make(map[int]bool)
	for i, w := range windows {
		for _, t := range GenerateSlots(w, granularity) {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, blockSlot{start: t, block: i})
		}
	}
	return out
}
