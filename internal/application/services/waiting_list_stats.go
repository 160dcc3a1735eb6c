package services

import (
	"math"
	"time"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// ComputeWaitingListStats derives the queue summary from the current entries.
// "Today" is the calendar date of now in now's location.
func ComputeWaitingListStats(entries []*entities.WaitingEntry, now time.Time) entities.WaitingListStats {
	var stats entities.WaitingListStats
	var seatedWait, closedWait float64
	var closedCount int

	for _, e := range entries {
		switch e.Status {
		case entities.WaitingStatusWaiting:
			stats.ActiveCount++
			stats.TotalPeopleWaiting += e.PartySize
		case entities.WaitingStatusNotified:
			stats.NotifiedCount++
			stats.TotalPeopleWaiting += e.PartySize
		case entities.WaitingStatusSeated:
			if !sameDay(e.UpdatedAt, now) {
				continue
			}
			wait := waitMinutes(e)
			stats.SeatedTodayCount++
			stats.TotalPeopleSeatedToday += e.PartySize
			seatedWait += wait
			closedWait += wait
			closedCount++
		case entities.WaitingStatusNoShow:
			if !sameDay(e.UpdatedAt, now) {
				continue
			}
			stats.NoShowTodayCount++
			closedWait += waitMinutes(e)
			closedCount++
		}
	}

	if closedCount > 0 {
		stats.AverageWaitTime = closedWait / float64(closedCount)
	}
	if stats.SeatedTodayCount > 0 {
		stats.TodayAverageWaitTime = seatedWait / float64(stats.SeatedTodayCount)
	}
	if denom := stats.SeatedTodayCount + stats.NoShowTodayCount; denom > 0 {
		stats.NoShowPercentage = int(math.Round(100 * float64(stats.NoShowTodayCount) / float64(denom)))
	}

	return stats
}

func waitMinutes(e *entities.WaitingEntry) float64 {
	return e.UpdatedAt.Sub(e.CreatedAt).Minutes()
}

func sameDay(t, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}
