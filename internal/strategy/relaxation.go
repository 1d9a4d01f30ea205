package strategy

import (
	"context"
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// ConstraintRelaxation is the last resort for soft violations: it
// accepts the conflict as a known trade-off instead of rescheduling
// anything, leaving the schedule untouched. Critical and policy
// conflicts are never accepted.
type ConstraintRelaxation struct{}

func NewConstraintRelaxation() *ConstraintRelaxation { return &ConstraintRelaxation{} }

func (s *ConstraintRelaxation) Name() string { return NameConstraintRelaxation }

func (s *ConstraintRelaxation) SupportedTypes() []types.ConflictType {
	return []types.ConflictType{
		types.ConflictTypeRest,
		types.ConflictTypeTravel,
		types.ConflictTypeVenue,
		types.ConflictTypeVenueSharing,
		types.ConflictTypeResource,
		types.ConflictTypeMedia,
	}
}

func (s *ConstraintRelaxation) Resolve(_ context.Context, req *Request) (*Outcome, error) {
	c := req.Conflict
	if c.Severity == types.SeverityCritical || c.Type == types.ConflictTypeSundayPolicy {
		return failure("critical and policy conflicts cannot be accepted by relaxation"), nil
	}

	clone := req.Schedule.Clone()
	notes := fmt.Sprintf("accepted %s conflict as a known trade-off; schedule unchanged", c.Type)
	return resolved(req, s.Name(), clone, notes), nil
}
