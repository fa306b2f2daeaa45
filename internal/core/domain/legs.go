package domain

// LegSummary is the derived power-leg / other-leg split for one member.
// The classification is purely positional: the power leg is the subtree
// rooted at the first-ever direct; every later direct belongs to the other
// leg, regardless of how large its subtree grows.
type LegSummary struct {
	PowerLegChildID *string `json:"powerLegChildID"`
	PowerLegSize    int     `json:"powerLegSize"`
	OtherLegSize    int     `json:"otherLegSize"`
}

// MatchablePairs returns the number of balanced (power, other) pairs.
func (l LegSummary) MatchablePairs() int64 {
	if l.PowerLegSize < l.OtherLegSize {
		return int64(l.PowerLegSize)
	}
	return int64(l.OtherLegSize)
}

// SubtreeNode is the recursive downline view used for tree visualisation.
type SubtreeNode struct {
	MemberID string        `json:"memberID"`
	Directs  []SubtreeNode `json:"directs"`
}

// Size returns the number of members in the subtree, the node included.
func (n SubtreeNode) Size() int {
	size := 1
	for _, child := range n.Directs {
		size += child.Size()
	}
	return size
}
