package annotator

// Point is a single annotation marker. X and Y are image-native pixels.
type Point struct {
	ID   int
	X, Y float64
	Data string
}

// PointStore is the ordered collection of points plus the selection.
//
// Ids are max(existing)+1, or 1 for an empty store, so they stay unique
// while a point exists and are never renumbered on deletion. Iteration order
// is creation order. The zero value is an empty store.
type PointStore struct {
	points   []Point
	selected int // 0 = none
}

// NewPointStore seeds a store from initial points. Caller ids are discarded
// and replaced with 1..N in the given order.
func NewPointStore(initial []Point) *PointStore {
	s := &PointStore{points: make([]Point, 0, len(initial))}
	for i, p := range initial {
		p.ID = i + 1
		s.points = append(s.points, p)
	}
	return s
}

func (s *PointStore) nextID() int {
	next := 1
	for _, p := range s.points {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// Add appends a point with the next id and returns it.
func (s *PointStore) Add(x, y float64, data string) Point {
	p := Point{ID: s.nextID(), X: x, Y: y, Data: data}
	s.points = append(s.points, p)
	return p
}

// Delete removes the point with the given id. It reports whether a point was
// removed; an unknown id is a no-op. Deleting the selected point clears the
// selection.
func (s *PointStore) Delete(id int) bool {
	for i := range s.points {
		if s.points[i].ID != id {
			continue
		}
		copy(s.points[i:], s.points[i+1:])
		s.points = s.points[:len(s.points)-1]
		if s.selected == id {
			s.selected = 0
		}
		return true
	}
	return false
}

// Get returns the point with the given id.
func (s *PointStore) Get(id int) (Point, bool) {
	for _, p := range s.points {
		if p.ID == id {
			return p, true
		}
	}
	return Point{}, false
}

// Select marks the point with the given id as selected and returns it.
// An unknown id leaves the selection unchanged.
func (s *PointStore) Select(id int) (Point, bool) {
	p, ok := s.Get(id)
	if ok {
		s.selected = id
	}
	return p, ok
}

// ClearSelection deselects any selected point.
func (s *PointStore) ClearSelection() {
	s.selected = 0
}

// Selected returns the selected point, if any.
func (s *PointStore) Selected() (Point, bool) {
	if s.selected == 0 {
		return Point{}, false
	}
	return s.Get(s.selected)
}

// SelectedID returns the selected point's id, or 0 when nothing is selected.
func (s *PointStore) SelectedID() int {
	return s.selected
}

// Len returns the number of points.
func (s *PointStore) Len() int {
	return len(s.points)
}

// Points returns a snapshot of the points in creation order.
func (s *PointStore) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// HitTest returns the first point, in creation order, whose center lies
// within radius of (x, y). All values are in image space.
func (s *PointStore) HitTest(x, y, radius float64) (Point, bool) {
	r2 := radius * radius
	for _, p := range s.points {
		dx := x - p.X
		dy := y - p.Y
		if dx*dx+dy*dy <= r2 {
			return p, true
		}
	}
	return Point{}, false
}
