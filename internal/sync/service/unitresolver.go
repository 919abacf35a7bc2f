package service

import (
	"context"
	"time"

	"staysync/internal/sync/repository"
	"staysync/pkg/model"
)

// UnitResolver assigns physical rental units to room stays. Runs are
// single-threaded, so an in-memory claim set is enough to keep two room
// stays of the same batch off the same unit before any consumption is
// persisted.
type UnitResolver struct {
	properties repository.PropertyRepository
	sojourns   repository.SojournRepository

	claimed map[string]bool
}

func NewUnitResolver(properties repository.PropertyRepository, sojourns repository.SojournRepository) *UnitResolver {
	return &UnitResolver{
		properties: properties,
		sojourns:   sojourns,
		claimed:    make(map[string]bool),
	}
}

// Reset clears the claim set; the orchestrator calls it at the start of
// every run.
func (r *UnitResolver) Reset() {
	r.claimed = make(map[string]bool)
}

// Release returns units claimed for a booking that is being unwound.
func (r *UnitResolver) Release(unitIDs []string) {
	for _, id := range unitIDs {
		delete(r.claimed, id)
	}
}

// Resolve picks a free unit from the mapping: capacity must fit the guest
// count and no consumption may overlap the half-open stay window. Occupancy
// is whole-unit: any overlapping consumption makes a unit busy regardless
// of its quantity, which is recorded for reporting only. A nil unit with
// nil error reports overbooking; the caller decides what that means.
func (r *UnitResolver) Resolve(ctx context.Context, mapping *model.RoomTypeMapping, start, end time.Time, guests int) (*model.RentalUnit, error) {
	units, err := r.properties.UnitsByIDs(ctx, mapping.UnitIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]*model.RentalUnit, 0, len(units))
	candidateIDs := make([]string, 0, len(units))
	for _, unit := range units {
		if unit.Capacity < guests || r.claimed[unit.ID] {
			continue
		}
		candidates = append(candidates, unit)
		candidateIDs = append(candidateIDs, unit.ID)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	overlapping, err := r.sojourns.OverlappingConsumptions(ctx, candidateIDs, start, end)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]bool, len(overlapping))
	for _, consumption := range overlapping {
		busy[consumption.UnitID] = true
	}

	for _, unit := range candidates {
		if busy[unit.ID] {
			continue
		}
		r.claimed[unit.ID] = true
		return unit, nil
	}
	return nil, nil
}
