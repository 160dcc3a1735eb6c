package services

import (
	"slices"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// SortWaitingEntries orders entries in place: waiting before every other
// status, then high before medium before low, then oldest first. The sort is
// stable so entries equal on all three keys keep their relative order.
func SortWaitingEntries(entries []*entities.WaitingEntry) {
	slices.SortStableFunc(entries, compareWaitingEntries)
}

func compareWaitingEntries(a, b *entities.WaitingEntry) int {
	aWaiting := a.Status == entities.WaitingStatusWaiting
	bWaiting := b.Status == entities.WaitingStatusWaiting
	if aWaiting != bWaiting {
		if aWaiting {
			return -1
		}
		return 1
	}

	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra - rb
	}

	return a.CreatedAt.Compare(b.CreatedAt)
}

// insertOrdered places entry before the first element that sorts after it,
// leaving the relative order of the others untouched
func insertOrdered(entries []*entities.WaitingEntry, entry *entities.WaitingEntry) []*entities.WaitingEntry {
	at := len(entries)
	for i, e := range entries {
		if compareWaitingEntries(entry, e) < 0 {
			at = i
			break
		}
	}
	return slices.Insert(entries, at, entry)
}

// orderKeyChanged reports whether next sorts under a different status bucket
// or priority than prev
func orderKeyChanged(prev, next *entities.WaitingEntry) bool {
	prevWaiting := prev.Status == entities.WaitingStatusWaiting
	nextWaiting := next.Status == entities.WaitingStatusWaiting
	return prevWaiting != nextWaiting || prev.Priority.Rank() != next.Priority.Rank()
}
