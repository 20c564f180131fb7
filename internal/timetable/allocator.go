package timetable

// Subject is a schedulable subject with its weekly load already resolved.
type Subject struct {
	ID          string
	Name        string
	WeeklyHours int
	TeacherID   string
}

// Room is an interchangeable teaching room.
type Room struct {
	ID   string
	Name string
}

// Booking is an already committed schedule entry.
type Booking struct {
	SectionID string
	TeacherID string
	RoomID    string
	Day       int
	Start     int
	End       int
}

// Placement is a block the allocator managed to place.
type Placement struct {
	SubjectID   string
	SubjectName string
	TeacherID   string
	RoomID      string
	Day         int
	Start       int
	End         int
	BlockHours  int
}

// Failure is a block that found no free day, run and room.
type Failure struct {
	SubjectID   string
	SubjectName string
	BlockHours  int
}

// Request describes a single allocator run for one section.
type Request struct {
	SectionID       string
	Subjects        []Subject
	Rooms           []Room
	Existing        []Booking
	IncludeSaturday bool
}

// Result holds the outcome of a run. Partial success is normal.
type Result struct {
	Placements []Placement
	Failures   []Failure
}

// Allocate places every subject block greedily. Subjects are taken in the given order,
// blocks in split order, days in week order, runs by ascending start, rooms in the given
// order. The first acceptable option wins and is never revisited.
func Allocate(req Request) Result {
	occ := NewOccupancy(req.Existing)

	slotsByDay := make(map[int][]Slot)
	days := Days(req.IncludeSaturday)
	for _, day := range days {
		slotsByDay[day] = DaySlots(day)
	}

	result := Result{
		Placements: make([]Placement, 0),
		Failures:   make([]Failure, 0),
	}

	for _, subject := range req.Subjects {
		for _, block := range SplitLoad(subject.WeeklyHours) {
			placement, ok := placeBlock(occ, req, days, slotsByDay, subject, block)
			if !ok {
				result.Failures = append(result.Failures, Failure{
					SubjectID:   subject.ID,
					SubjectName: subject.Name,
					BlockHours:  block,
				})
				continue
			}
			occ.Commit(Booking{
				SectionID: req.SectionID,
				TeacherID: placement.TeacherID,
				RoomID:    placement.RoomID,
				Day:       placement.Day,
				Start:     placement.Start,
				End:       placement.End,
			})
			result.Placements = append(result.Placements, placement)
		}
	}

	return result
}

func placeBlock(occ *Occupancy, req Request, days []int, slotsByDay map[int][]Slot, subject Subject, block int) (Placement, bool) {
	for _, day := range days {
		for _, run := range Runs(slotsByDay[day], block) {
			iv := Interval{Start: run.Start, End: run.End}
			if occ.Sections.Conflicts(req.SectionID, day, iv) {
				continue
			}
			if occ.Teachers.Conflicts(subject.TeacherID, day, iv) {
				continue
			}
			room, ok := firstFreeRoom(occ.Rooms, req.Rooms, day, iv)
			if !ok {
				continue
			}
			return Placement{
				SubjectID:   subject.ID,
				SubjectName: subject.Name,
				TeacherID:   subject.TeacherID,
				RoomID:      room.ID,
				Day:         day,
				Start:       run.Start,
				End:         run.End,
				BlockHours:  block,
			}, true
		}
	}
	return Placement{}, false
}

func firstFreeRoom(rooms *Index, candidates []Room, day int, iv Interval) (Room, bool) {
	for _, room := range candidates {
		if !rooms.Conflicts(room.ID, day, iv) {
			return room, true
		}
	}
	return Room{}, false
}
