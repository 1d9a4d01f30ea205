package strategy

import (
	"fmt"

	"gridline-schedule-engine/pkg/types"
)

// Registry maps conflict types to the strategies allowed to repair
// them. The applicability table is fixed at construction and lookups
// never mutate it. A type missing from the table falls back to every
// general strategy; a type present with an empty list gets no
// candidates at all.
type Registry struct {
	general map[string]Strategy
	order   []string
	table   map[types.ConflictType][]string
	domain  map[types.ConflictType]Strategy
}

// NewRegistry builds the default strategy set: the five general
// strategies plus the Sunday policy resolver, wired to the standard
// applicability table. policyWindowDays bounds the domain resolver's
// day search; zero keeps its default.
func NewRegistry(policyWindowDays int) *Registry {
	r := &Registry{
		general: make(map[string]Strategy),
		domain:  make(map[types.ConflictType]Strategy),
		table: map[types.ConflictType][]string{
			types.ConflictTypeVenue:  {NameVenueRescheduling, NameDayShift, NameGameClustering},
			types.ConflictTypeTeam:   {NameDayShift, NameOpponentSwap, NameGameClustering},
			types.ConflictTypeTravel: {NameGameClustering, NameDayShift, NameVenueRescheduling},
			types.ConflictTypeRest:   {NameDayShift, NameGameClustering},
			// Policy conflicts belong to the domain resolver alone; an
			// empty list here keeps every general strategy away.
			types.ConflictTypeSundayPolicy: {},
		},
	}

	r.add(NewVenueRescheduling())
	r.add(NewDayShift())
	r.add(NewGameClustering())
	r.add(NewOpponentSwap())
	r.add(NewConstraintRelaxation())
	r.RegisterDomainResolver(types.ConflictTypeSundayPolicy, NewSundayPolicyResolver(policyWindowDays))

	return r
}

func (r *Registry) add(s Strategy) {
	r.general[s.Name()] = s
	r.order = append(r.order, s.Name())
}

// Register adds a general strategy. Names must be unique; the default
// set cannot be replaced.
func (r *Registry) Register(s Strategy) error {
	if _, exists := r.general[s.Name()]; exists {
		return fmt.Errorf("strategy %q is already registered", s.Name())
	}
	r.add(s)
	return nil
}

// RegisterDomainResolver binds the sole acceptable fix for a conflict
// type. Domain resolvers run before any general strategy and are not
// subject to learned ordering.
func (r *Registry) RegisterDomainResolver(ct types.ConflictType, s Strategy) {
	r.domain[ct] = s
}

// Get returns a general strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.general[name]
	return s, ok
}

// Names lists the general strategies in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// CandidatesFor returns the ordered strategies allowed to attempt a
// conflict type. The slice is a fresh copy each call.
func (r *Registry) CandidatesFor(ct types.ConflictType) []Strategy {
	names, known := r.table[ct]
	if !known {
		names = r.order
	}

	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		if s, ok := r.general[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// DomainResolverFor returns the domain resolver for a conflict type,
// if one is bound.
func (r *Registry) DomainResolverFor(ct types.ConflictType) (Strategy, bool) {
	s, ok := r.domain[ct]
	return s, ok
}
