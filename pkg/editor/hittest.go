package editor

// HitRadius is the distance in domain units below which a click hits an
// anchor.
const HitRadius = 25.0

// HitTest returns the index of the anchor nearest to p that lies strictly
// within HitRadius. Among anchors at the same distance the earliest in the
// list wins. ok is false when nothing is close enough.
func HitTest(anchors []Anchor, p Point) (index int, ok bool) {
	best := HitRadius
	index = -1
	for i, a := range anchors {
		if d := Dist(a.Position.XY(), p); d < best {
			best, index = d, i
		}
	}
	return index, index >= 0
}
