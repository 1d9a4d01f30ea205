package strategy

import (
	"context"
	"testing"

	"gridline-schedule-engine/pkg/types"
)

func candidateNames(r *Registry, ct types.ConflictType) []string {
	candidates := r.CandidatesFor(ct)
	names := make([]string, len(candidates))
	for i, s := range candidates {
		names[i] = s.Name()
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRegistry_CandidatesFollowTable(t *testing.T) {
	r := NewRegistry(0)

	tests := []struct {
		ct   types.ConflictType
		want []string
	}{
		{types.ConflictTypeVenue, []string{NameVenueRescheduling, NameDayShift, NameGameClustering}},
		{types.ConflictTypeTeam, []string{NameDayShift, NameOpponentSwap, NameGameClustering}},
		{types.ConflictTypeTravel, []string{NameGameClustering, NameDayShift, NameVenueRescheduling}},
		{types.ConflictTypeRest, []string{NameDayShift, NameGameClustering}},
	}
	for _, tt := range tests {
		t.Run(string(tt.ct), func(t *testing.T) {
			if got := candidateNames(r, tt.ct); !equalNames(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRegistry_PolicyHasNoGeneralCandidates(t *testing.T) {
	r := NewRegistry(0)

	if got := r.CandidatesFor(types.ConflictTypeSundayPolicy); len(got) != 0 {
		t.Errorf("expected no general candidates for policy conflicts, got %d", len(got))
	}

	domain, ok := r.DomainResolverFor(types.ConflictTypeSundayPolicy)
	if !ok {
		t.Fatal("expected a domain resolver for policy conflicts")
	}
	if domain.Name() != NameSundayPolicy {
		t.Errorf("expected the Sunday resolver, got %s", domain.Name())
	}
}

func TestRegistry_UnknownTypeTriesAllStrategies(t *testing.T) {
	r := NewRegistry(0)

	want := []string{NameVenueRescheduling, NameDayShift, NameGameClustering, NameOpponentSwap, NameConstraintRelaxation}
	if got := candidateNames(r, types.ConflictTypeVenueSharing); !equalNames(got, want) {
		t.Errorf("expected all strategies in registration order, got %v", got)
	}
}

type stubStrategy struct{ name string }

func (s *stubStrategy) Name() string                         { return s.name }
func (s *stubStrategy) SupportedTypes() []types.ConflictType { return nil }
func (s *stubStrategy) Resolve(_ context.Context, _ *Request) (*Outcome, error) {
	return failure("stub"), nil
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry(0)

	if err := r.Register(&stubStrategy{name: "experimental"}); err != nil {
		t.Fatalf("expected first registration to succeed, got %v", err)
	}
	if err := r.Register(&stubStrategy{name: "experimental"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := r.Register(&stubStrategy{name: NameDayShift}); err == nil {
		t.Error("expected a default name collision to fail")
	}
}

func TestRegistry_CandidateListIsACopy(t *testing.T) {
	r := NewRegistry(0)

	first := r.CandidatesFor(types.ConflictTypeRest)
	first[0] = &stubStrategy{name: "mutated"}

	second := r.CandidatesFor(types.ConflictTypeRest)
	if second[0].Name() != NameDayShift {
		t.Errorf("mutating a candidate list must not affect the registry, got %s", second[0].Name())
	}
}
