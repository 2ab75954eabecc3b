package transfer

// Strategy is a named chunk-size policy. Threshold is the largest object size
// the policy is intended for; ChunkSize is the part bound used when splitting.
type Strategy struct {
	Name      string
	Threshold int64
	ChunkSize int64
}

// Ladder is an ordered, immutable strategy table, smallest chunk size first.
// Selection scans thresholds ascending; fallback walks chunk sizes descending.
type Ladder []Strategy

// DefaultLadder is the fixed production table. Thresholds are object-size
// ranges (roughly twice the chunk size, so small objects get small parts);
// fallback order is aggressive -> balanced -> safe -> tiny.
var DefaultLadder = Ladder{
	{Name: "tiny", Threshold: 20 * miB, ChunkSize: 10 * miB},
	{Name: "safe", Threshold: 180 * miB, ChunkSize: 90 * miB},
	{Name: "balanced", Threshold: 400 * miB, ChunkSize: 200 * miB},
	{Name: "aggressive", Threshold: 1 * tiB, ChunkSize: 500 * miB},
}

// Select returns the strategy whose threshold is the smallest value >= size.
// Sizes beyond every threshold get the largest strategy (fewest parts).
// Size 0 is valid and selects the smallest strategy. A negative size means
// "unknown" and selects the conservative default.
func (l Ladder) Select(size int64) Strategy {
	if size < 0 {
		return l.Conservative()
	}
	for _, s := range l {
		if size <= s.Threshold {
			return s
		}
	}
	return l[len(l)-1]
}

// Conservative is the policy used when the object size is not known at
// chunk-size decision time: one step above the smallest, so an undersized
// guess still produces few parts without risking the largest chunk size.
func (l Ladder) Conservative() Strategy {
	if len(l) > 1 {
		return l[1]
	}
	return l[0]
}

// NextSmaller returns the next strategy down the fallback ladder and true, or
// the zero Strategy and false when cur is already the smallest.
func (l Ladder) NextSmaller(cur Strategy) (Strategy, bool) {
	for i := len(l) - 1; i > 0; i-- {
		if l[i].Name == cur.Name {
			return l[i-1], true
		}
	}
	return Strategy{}, false
}

// Smallest returns the first ladder entry.
func (l Ladder) Smallest() Strategy {
	return l[0]
}

// Largest returns the last ladder entry.
func (l Ladder) Largest() Strategy {
	return l[len(l)-1]
}
