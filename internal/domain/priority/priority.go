// Package priority keeps a strict ordering among sibling records that share a
// parent id and computes the minimal set of priority changes a caller has to
// persist. Functions never perform I/O and never mutate their input slices.
package priority

import (
	"cmp"
	"slices"
)

type Record struct {
	ID        int64
	ParentID  int64
	Priority  int
	IsDeleted bool
}

// Update is a pending priority change for the persistence layer to apply.
type Update struct {
	ID       int64 `json:"id"`
	Priority int   `json:"priority"`
}

type Duplicate struct {
	Priority int     `json:"priority"`
	ItemIDs  []int64 `json:"item_ids"`
}

// NextPriority returns a priority greater than every priority in the parent
// group. Soft-deleted records keep their slot reserved.
func NextPriority(records []Record, parentID int64) int {
	siblings := siblingsOf(records, parentID, true)
	if len(siblings) == 0 {
		return 1
	}
	return maxPriority(siblings) + 1
}

// SortByPriority returns a copy ordered by ascending priority. Records with
// equal priority keep their input order.
func SortByPriority(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return sorted
}

func MoveUp(records []Record, itemID int64) ([]Record, []Update) {
	return move(records, itemID, -1)
}

func MoveDown(records []Record, itemID int64) ([]Record, []Update) {
	return move(records, itemID, 1)
}

func move(records []Record, itemID int64, step int) ([]Record, []Update) {
	target, ok := find(records, itemID)
	if !ok {
		return records, []Update{}
	}

	ranked := rankedSiblings(records, target.ParentID)
	pos := indexOf(ranked, itemID)
	neighbor := pos + step
	if pos < 0 || neighbor < 0 || neighbor >= len(ranked) {
		return records, []Update{}
	}

	moved := ranked[pos]
	other := ranked[neighbor]
	moved.Priority, other.Priority = other.Priority, moved.Priority

	result := slices.Clone(records)
	for i := range result {
		switch result[i].ID {
		case moved.ID:
			result[i].Priority = moved.Priority
		case other.ID:
			result[i].Priority = other.Priority
		}
	}

	return result, []Update{
		{ID: moved.ID, Priority: moved.Priority},
		{ID: other.ID, Priority: other.Priority},
	}
}

// NormalizePriorities renumbers the active records of a parent group to 1..N
// in their current order. Deleted records are left as they are, even if an
// active record ends up sharing their priority.
func NormalizePriorities(records []Record, parentID int64) ([]Record, []Update) {
	active := SortByPriority(siblingsOf(records, parentID, false))

	assigned := make(map[int64]int, len(active))
	updates := make([]Update, 0, len(active))
	for i, record := range active {
		want := i + 1
		if record.Priority == want {
			continue
		}
		assigned[record.ID] = want
		updates = append(updates, Update{ID: record.ID, Priority: want})
	}

	result := slices.Clone(records)
	if len(updates) == 0 {
		return result, updates
	}
	for i := range result {
		if result[i].ParentID != parentID || result[i].IsDeleted {
			continue
		}
		if want, ok := assigned[result[i].ID]; ok {
			result[i].Priority = want
		}
	}
	return result, updates
}

func CanMoveUp(records []Record, itemID, parentID int64) bool {
	pos := indexOf(rankedSiblings(records, parentID), itemID)
	return pos > 0
}

func CanMoveDown(records []Record, itemID, parentID int64) bool {
	ranked := rankedSiblings(records, parentID)
	pos := indexOf(ranked, itemID)
	return pos >= 0 && pos < len(ranked)-1
}

// UsedPriorities lists every priority held in the parent group, ascending,
// duplicates included.
func UsedPriorities(records []Record, parentID int64) []int {
	siblings := siblingsOf(records, parentID, true)
	used := make([]int, 0, len(siblings))
	for _, record := range siblings {
		used = append(used, record.Priority)
	}
	slices.Sort(used)
	return used
}

// NextAvailablePriority returns the smallest positive priority not held by
// any record of the parent group.
func NextAvailablePriority(records []Record, parentID int64) int {
	used := UsedPriorities(records, parentID)
	taken := make(map[int]struct{}, len(used))
	for _, p := range used {
		taken[p] = struct{}{}
	}

	for candidate := 1; candidate <= len(used)+1; candidate++ {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
	return used[len(used)-1] + 1
}

func ValidateUniqueness(records []Record, parentID int64) (bool, []Duplicate) {
	byPriority := make(map[int][]int64)
	for _, record := range siblingsOf(records, parentID, true) {
		byPriority[record.Priority] = append(byPriority[record.Priority], record.ID)
	}

	duplicates := make([]Duplicate, 0)
	for p, ids := range byPriority {
		if len(ids) > 1 {
			duplicates = append(duplicates, Duplicate{Priority: p, ItemIDs: ids})
		}
	}
	slices.SortFunc(duplicates, func(a, b Duplicate) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	return len(duplicates) == 0, duplicates
}

func siblingsOf(records []Record, parentID int64, includeDeleted bool) []Record {
	result := make([]Record, 0, len(records))
	for _, record := range records {
		if record.ParentID != parentID {
			continue
		}
		if record.IsDeleted && !includeDeleted {
			continue
		}
		result = append(result, record)
	}
	return result
}

// rankedSiblings orders the whole parent group by priority, then id, so that
// ranks stay deterministic while duplicates exist.
func rankedSiblings(records []Record, parentID int64) []Record {
	siblings := siblingsOf(records, parentID, true)
	slices.SortFunc(siblings, func(a, b Record) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return siblings
}

func find(records []Record, id int64) (Record, bool) {
	for _, record := range records {
		if record.ID == id {
			return record, true
		}
	}
	return Record{}, false
}

func indexOf(records []Record, id int64) int {
	for i, record := range records {
		if record.ID == id {
			return i
		}
	}
	return -1
}

func maxPriority(records []Record) int {
	highest := records[0].Priority
	for _, record := range records[1:] {
		if record.Priority > highest {
			highest = record.Priority
		}
	}
	return highest
}
