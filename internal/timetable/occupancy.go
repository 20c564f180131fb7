package timetable

// Interval is a half-open [Start, End) range in minutes after midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two intervals on the same day intersect.
func (i Interval) Overlaps(other Interval) bool {
	return !(i.End <= other.Start || i.Start >= other.End)
}

// Index tracks committed intervals per owner and day for one resource type.
type Index struct {
	byOwner map[string]map[int][]Interval
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byOwner: make(map[string]map[int][]Interval)}
}

// Reserve records an interval for the owner. Empty owners are unconstrained and ignored.
func (x *Index) Reserve(owner string, day int, iv Interval) {
	if owner == "" {
		return
	}
	days, ok := x.byOwner[owner]
	if !ok {
		days = make(map[int][]Interval)
		x.byOwner[owner] = days
	}
	days[day] = append(days[day], iv)
}

// Conflicts reports whether the interval collides with anything already reserved for owner.
func (x *Index) Conflicts(owner string, day int, iv Interval) bool {
	if owner == "" {
		return false
	}
	for _, existing := range x.byOwner[owner][day] {
		if existing.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Intervals returns the reserved intervals for an owner on a day.
func (x *Index) Intervals(owner string, day int) []Interval {
	return x.byOwner[owner][day]
}

// Occupancy bundles the section, teacher and room indexes of a single allocator run.
type Occupancy struct {
	Sections *Index
	Teachers *Index
	Rooms    *Index
}

// NewOccupancy seeds the three indexes from pre-existing bookings.
func NewOccupancy(bookings []Booking) *Occupancy {
	occ := &Occupancy{
		Sections: NewIndex(),
		Teachers: NewIndex(),
		Rooms:    NewIndex(),
	}
	for _, b := range bookings {
		occ.Commit(b)
	}
	return occ
}

// Commit records a booking in every index it touches.
func (o *Occupancy) Commit(b Booking) {
	iv := Interval{Start: b.Start, End: b.End}
	o.Sections.Reserve(b.SectionID, b.Day, iv)
	o.Teachers.Reserve(b.TeacherID, b.Day, iv)
	o.Rooms.Reserve(b.RoomID, b.Day, iv)
}
