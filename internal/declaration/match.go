package declaration

import "fmt"

// rawItemRef identifies one raw item slot during SEALNET re-serialization:
// its entry and item indexes, plus its position in the flattened item order.
type rawItemRef struct {
	DataIndex int
	ItemIndex int
	Position  int
}

// itemMatcher finds the edited UI item for a raw slot, or nil.
type itemMatcher func(ref rawItemRef, items []JobCargoItem) *JobCargoItem

// sealnetMatchers is the ordered fallback chain used when patching raw items.
// The item list may have been filtered or reordered client-side, so matching
// runs source-index first, then the id pattern, and only as a last resort by
// position. A raw item no matcher claims passes through unedited.
var sealnetMatchers = []itemMatcher{
	matchBySourceIndexes,
	matchByIDPattern,
	matchByPosition,
}

func matchItem(ref rawItemRef, items []JobCargoItem) *JobCargoItem {
	for _, matcher := range sealnetMatchers {
		if item := matcher(ref, items); item != nil {
			return item
		}
	}
	return nil
}

func matchBySourceIndexes(ref rawItemRef, items []JobCargoItem) *JobCargoItem {
	for i := range items {
		if items[i].SourceDataIndex == ref.DataIndex && items[i].SourceItemIndex == ref.ItemIndex {
			return &items[i]
		}
	}
	return nil
}

func matchByIDPattern(ref rawItemRef, items []JobCargoItem) *JobCargoItem {
	id := fmt.Sprintf("%d-%d", ref.DataIndex, ref.ItemIndex)
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func matchByPosition(ref rawItemRef, items []JobCargoItem) *JobCargoItem {
	if ref.Position < 0 || ref.Position >= len(items) {
		return nil
	}
	return &items[ref.Position]
}
