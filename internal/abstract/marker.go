package abstract

// NewSplitMarker returns a fresh split-marker node.
func NewSplitMarker() *Element {
	return &Element{Kind: KindSplitMarker, Tag: "split-marker"}
}

// InsertMarkers inserts a split marker after every every-th real element of
// seq. Markers never lead the sequence, never trail it, and never end up
// adjacent: for a sequence of length L the result carries floor((L-1)/every)
// markers. every < 1 is a no-op.
func InsertMarkers(seq []*Element, every int) []*Element {
	if every < 1 || len(seq) <= every {
		return seq
	}
	out := make([]*Element, 0, len(seq)+(len(seq)-1)/every)
	for i, el := range seq {
		out = append(out, el)
		if (i+1)%every == 0 && i != len(seq)-1 {
			out = append(out, NewSplitMarker())
		}
	}
	return out
}
