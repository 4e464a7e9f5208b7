package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSiblings() []Record {
	return []Record{
		{ID: 10, ParentID: 1, Priority: 1},
		{ID: 11, ParentID: 1, Priority: 2},
		{ID: 12, ParentID: 1, Priority: 3},
	}
}

func priorities(records []Record) map[int64]int {
	result := make(map[int64]int, len(records))
	for _, record := range records {
		result[record.ID] = record.Priority
	}
	return result
}

func TestNextPriority(t *testing.T) {
	tests := []struct {
		name     string
		records  []Record
		parentID int64
		expected int
	}{
		{"empty collection", nil, 1, 1},
		{"no siblings for parent", threeSiblings(), 2, 1},
		{"after highest", threeSiblings(), 1, 4},
		{
			"deleted record reserves slot",
			append(threeSiblings(), Record{ID: 13, ParentID: 1, Priority: 9, IsDeleted: true}),
			1,
			10,
		},
		{
			"other parents ignored",
			append(threeSiblings(), Record{ID: 20, ParentID: 2, Priority: 50}),
			1,
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextPriority(tt.records, tt.parentID))
		})
	}
}

func TestNextPriorityExceedsEveryExistingPriority(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 7, Priority: 4},
		{ID: 2, ParentID: 7, Priority: 4},
		{ID: 3, ParentID: 7, Priority: 12, IsDeleted: true},
		{ID: 4, ParentID: 7, Priority: -3},
	}

	next := NextPriority(records, 7)
	for _, record := range records {
		assert.Greater(t, next, record.Priority)
	}
}

func TestSortByPriorityReturnsStableCopy(t *testing.T) {
	records := []Record{
		{ID: 3, ParentID: 1, Priority: 2},
		{ID: 1, ParentID: 1, Priority: 1},
		{ID: 2, ParentID: 1, Priority: 2},
	}
	original := append([]Record(nil), records...)

	sorted := SortByPriority(records)

	require.Len(t, sorted, 3)
	assert.Equal(t, []int64{1, 3, 2}, []int64{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, original, records)
}

func TestMoveUpFirstIsNoop(t *testing.T) {
	records := threeSiblings()

	result, updates := MoveUp(records, 10)

	assert.Equal(t, records, result)
	assert.Empty(t, updates)
	assert.NotNil(t, updates)
}

func TestMoveDownLastIsNoop(t *testing.T) {
	records := threeSiblings()

	result, updates := MoveDown(records, 12)

	assert.Equal(t, records, result)
	assert.Empty(t, updates)
}

func TestMoveUnknownItemIsNoop(t *testing.T) {
	records := threeSiblings()

	_, up := MoveUp(records, 99)
	_, down := MoveDown(records, 99)

	assert.Empty(t, up)
	assert.Empty(t, down)
}

func TestMoveUpSwapsWithPreviousSibling(t *testing.T) {
	records := threeSiblings()

	result, updates := MoveUp(records, 11)

	assert.Equal(t, map[int64]int{10: 2, 11: 1, 12: 3}, priorities(result))
	assert.Equal(t, []Update{{ID: 11, Priority: 1}, {ID: 10, Priority: 2}}, updates)
}

func TestMoveDownSwapsWithNextSibling(t *testing.T) {
	records := threeSiblings()

	result, updates := MoveDown(records, 11)

	assert.Equal(t, map[int64]int{10: 1, 11: 3, 12: 2}, priorities(result))
	assert.Equal(t, []Update{{ID: 11, Priority: 3}, {ID: 12, Priority: 2}}, updates)
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	records := threeSiblings()

	MoveUp(records, 12)

	assert.Equal(t, threeSiblings(), records)
}

func TestMoveUpThenDownRestoresPriorities(t *testing.T) {
	records := threeSiblings()

	afterUp, _ := MoveUp(records, 12)
	afterDown, _ := MoveDown(afterUp, 12)

	assert.Equal(t, priorities(records), priorities(afterDown))
}

func TestMoveSwapsValuesNotPositions(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 10},
		{ID: 2, ParentID: 1, Priority: 30},
		{ID: 3, ParentID: 1, Priority: 20},
	}

	result, updates := MoveUp(records, 2)

	assert.Equal(t, []int64{1, 2, 3}, []int64{result[0].ID, result[1].ID, result[2].ID})
	assert.Equal(t, map[int64]int{1: 10, 2: 20, 3: 30}, priorities(result))
	assert.Equal(t, []Update{{ID: 2, Priority: 20}, {ID: 3, Priority: 30}}, updates)
}

func TestMoveIncludesDeletedSiblings(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 1},
		{ID: 2, ParentID: 1, Priority: 2, IsDeleted: true},
		{ID: 3, ParentID: 1, Priority: 3},
	}

	_, updates := MoveUp(records, 3)

	assert.Equal(t, []Update{{ID: 3, Priority: 2}, {ID: 2, Priority: 3}}, updates)
}

func TestMoveIgnoresOtherParents(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 1},
		{ID: 2, ParentID: 2, Priority: 2},
		{ID: 3, ParentID: 1, Priority: 3},
	}

	_, updates := MoveUp(records, 3)

	assert.Equal(t, []Update{{ID: 3, Priority: 1}, {ID: 1, Priority: 3}}, updates)
}

func TestMoveWithDuplicatePrioritiesRanksByID(t *testing.T) {
	records := []Record{
		{ID: 5, ParentID: 1, Priority: 1},
		{ID: 4, ParentID: 1, Priority: 1},
		{ID: 6, ParentID: 1, Priority: 2},
	}

	assert.False(t, CanMoveUp(records, 4, 1))
	assert.True(t, CanMoveUp(records, 5, 1))

	_, updates := MoveUp(records, 5)
	assert.Equal(t, []Update{{ID: 5, Priority: 1}, {ID: 4, Priority: 1}}, updates)
}

func TestCanMoveAgreesWithMove(t *testing.T) {
	records := append(threeSiblings(),
		Record{ID: 13, ParentID: 1, Priority: 4, IsDeleted: true},
		Record{ID: 20, ParentID: 2, Priority: 1},
	)

	for _, record := range records {
		_, up := MoveUp(records, record.ID)
		_, down := MoveDown(records, record.ID)

		assert.Equal(t, len(up) > 0, CanMoveUp(records, record.ID, record.ParentID), "up id=%d", record.ID)
		assert.Equal(t, len(down) > 0, CanMoveDown(records, record.ID, record.ParentID), "down id=%d", record.ID)
	}

	assert.False(t, CanMoveUp(records, 99, 1))
	assert.False(t, CanMoveDown(records, 99, 1))
	assert.False(t, CanMoveDown(records, 10, 2))
}

func TestNormalizePriorities(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 5},
		{ID: 2, ParentID: 1, Priority: 5},
		{ID: 3, ParentID: 1, Priority: 9},
	}

	result, updates := NormalizePriorities(records, 1)

	assert.Equal(t, map[int64]int{1: 1, 2: 2, 3: 3}, priorities(result))
	assert.Equal(t, []Update{
		{ID: 1, Priority: 1},
		{ID: 2, Priority: 2},
		{ID: 3, Priority: 3},
	}, updates)
	assert.Equal(t, 5, records[0].Priority)
}

func TestNormalizeOnlyReportsChangedRecords(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 1},
		{ID: 2, ParentID: 1, Priority: 4},
		{ID: 3, ParentID: 1, Priority: 3},
	}

	_, updates := NormalizePriorities(records, 1)

	assert.Equal(t, []Update{{ID: 3, Priority: 2}, {ID: 2, Priority: 3}}, updates)
}

func TestNormalizeLeavesDeletedAndOtherParents(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 1, IsDeleted: true},
		{ID: 2, ParentID: 1, Priority: 2},
		{ID: 3, ParentID: 1, Priority: 3},
		{ID: 4, ParentID: 2, Priority: 7},
	}

	result, updates := NormalizePriorities(records, 1)

	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 2, 4: 7}, priorities(result))
	assert.Len(t, updates, 2)

	valid, duplicates := ValidateUniqueness(result, 1)
	assert.False(t, valid)
	assert.Equal(t, []Duplicate{{Priority: 1, ItemIDs: []int64{1, 2}}}, duplicates)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 8},
		{ID: 2, ParentID: 1, Priority: 2},
		{ID: 3, ParentID: 1, Priority: 2},
	}

	first, updates := NormalizePriorities(records, 1)
	require.NotEmpty(t, updates)

	_, second := NormalizePriorities(first, 1)
	assert.Empty(t, second)
	assert.Equal(t, []int{1, 2, 3}, UsedPriorities(first, 1))
}

func TestUsedPriorities(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 3},
		{ID: 2, ParentID: 1, Priority: 1},
		{ID: 3, ParentID: 1, Priority: 3, IsDeleted: true},
		{ID: 4, ParentID: 2, Priority: 2},
	}

	assert.Equal(t, []int{1, 3, 3}, UsedPriorities(records, 1))
	assert.Empty(t, UsedPriorities(records, 3))
}

func TestNextAvailablePriority(t *testing.T) {
	tests := []struct {
		name     string
		used     []int
		expected int
	}{
		{"empty", nil, 1},
		{"fills gap", []int{1, 3, 4}, 2},
		{"second slot", []int{1, 3}, 2},
		{"no gap", []int{1, 2, 3}, 4},
		{"duplicates", []int{1, 1, 2}, 3},
		{"gap at start", []int{2, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Record, 0, len(tt.used))
			for i, p := range tt.used {
				records = append(records, Record{ID: int64(i + 1), ParentID: 1, Priority: p})
			}
			assert.Equal(t, tt.expected, NextAvailablePriority(records, 1))
		})
	}
}

func TestValidateUniqueness(t *testing.T) {
	records := []Record{
		{ID: 1, ParentID: 1, Priority: 1},
		{ID: 2, ParentID: 1, Priority: 1},
		{ID: 3, ParentID: 1, Priority: 2},
	}

	valid, duplicates := ValidateUniqueness(records, 1)

	assert.False(t, valid)
	assert.Equal(t, []Duplicate{{Priority: 1, ItemIDs: []int64{1, 2}}}, duplicates)
}

func TestValidateUniquenessReportsEveryCollision(t *testing.T) {
	records := []Record{
		{ID: 9, ParentID: 1, Priority: 4},
		{ID: 1, ParentID: 1, Priority: 2},
		{ID: 2, ParentID: 1, Priority: 4, IsDeleted: true},
		{ID: 3, ParentID: 1, Priority: 2},
		{ID: 4, ParentID: 1, Priority: 4},
		{ID: 5, ParentID: 2, Priority: 2},
	}

	valid, duplicates := ValidateUniqueness(records, 1)

	assert.False(t, valid)
	assert.Equal(t, []Duplicate{
		{Priority: 2, ItemIDs: []int64{1, 3}},
		{Priority: 4, ItemIDs: []int64{9, 2, 4}},
	}, duplicates)
}

func TestValidateUniquenessValid(t *testing.T) {
	valid, duplicates := ValidateUniqueness(threeSiblings(), 1)

	assert.True(t, valid)
	assert.Empty(t, duplicates)
}
