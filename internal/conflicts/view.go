package conflicts

import (
	"github.com/codr1/mphcourts/internal/availability"
	"github.com/codr1/mphcourts/internal/courts"
	"github.com/codr1/mphcourts/internal/slots"
)

// HourStatus is the effective state of one hour of one court.
type HourStatus struct {
	Hour  int
	State availability.State
	// Via is the overlapping slot responsible when the court itself holds no
	// claim.
	Via       *slots.Key
	BookingID int64
	BlockID   int64
	Derived   bool
}

// DayView folds one day's claims into per-hour states for court. A direct
// claim wins; otherwise the first non-derived claim on an overlapping court
// makes the hour unavailable.
func (e *Engine) DayView(court courts.Court, hours []int, day []availability.Occupancy) []HourStatus {
	type slot struct {
		court courts.ID
		hour  int
	}
	index := make(map[slot]availability.Occupancy, len(day))
	for _, occ := range day {
		index[slot{occ.Key.CourtID, occ.Key.Hour}] = occ
	}
	overlaps := e.topology.OverlapsOf(court.ID)

	out := make([]HourStatus, 0, len(hours))
	for _, hour := range hours {
		status := HourStatus{Hour: hour, State: availability.Free}
		if occ, ok := index[slot{court.ID, hour}]; ok {
			status.State = occ.State
			status.BookingID = occ.BookingID
			status.BlockID = occ.BlockID
			status.Derived = occ.Derived
			out = append(out, status)
			continue
		}
		for _, id := range overlaps {
			occ, ok := index[slot{id, hour}]
			if !ok || occ.Derived {
				continue
			}
			status.State = occ.State
			status.BookingID = occ.BookingID
			status.BlockID = occ.BlockID
			status.Via = keyPtr(occ.Key)
			break
		}
		out = append(out, status)
	}
	return out
}
