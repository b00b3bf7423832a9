package auth

// Tier is a permission level. Tiers form a strict hierarchy: every
// capability granted to a tier is granted to all higher tiers.
type Tier int

const (
	TierGuest Tier = iota
	TierContributor
	TierMaintainer
	TierAdministrator
	TierSystem
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierGuest:
		return "guest"
	case TierContributor:
		return "contributor"
	case TierMaintainer:
		return "maintainer"
	case TierAdministrator:
		return "administrator"
	case TierSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Capability is one class of operation a tier may perform.
type Capability int

const (
	// CapRead covers all read operations.
	CapRead Capability = iota

	// CapWrite covers creating and editing one's own resources.
	CapWrite

	// CapTriage covers labeling, assigning, and state transitions on
	// others' resources.
	CapTriage

	// CapAdmin covers destructive and settings-level operations.
	CapAdmin

	// CapCrossScope covers operations spanning repository boundaries.
	CapCrossScope
)

// minTier maps each capability to the lowest tier that holds it.
var minTier = map[Capability]Tier{
	CapRead:       TierGuest,
	CapWrite:      TierContributor,
	CapTriage:     TierMaintainer,
	CapAdmin:      TierAdministrator,
	CapCrossScope: TierSystem,
}

// Allows reports whether the tier holds the capability.
func (t Tier) Allows(c Capability) bool {
	min, ok := minTier[c]
	return ok && t >= min
}
