package timetable

// SplitLoad breaks a weekly load into contiguous block lengths.
//
//	L >= 5 -> [3, L-3]
//	L == 4 -> [2, 2]
//	L == 3 -> [2, 1]
//	L == 2 -> [2]
//	else   -> [1]
func SplitLoad(load int) []int {
	switch {
	case load >= 5:
		return []int{3, load - 3}
	case load == 4:
		return []int{2, 2}
	case load == 3:
		return []int{2, 1}
	case load == 2:
		return []int{2}
	default:
		return []int{1}
	}
}
