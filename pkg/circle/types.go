// Package circle personalizes trust signals against the set of
// accounts the current user has staked FOR on the canonical trust
// claim: a TTL cache of that set, cross-referencing it against a
// claim's position lists, and network-familiarity discovery.
package circle

import (
	"time"
)

// TrustedContact is one account the user has vouched for. Shares
// carries the user's stake as an exact-precision fixed-point string.
type TrustedContact struct {
	AccountID string `json:"account_id"`
	Label     string `json:"label"`
	Shares    string `json:"shares,omitempty"`
}

// CachedTrustedCircle is the persisted cache entry for one user:
// their contacts plus the creation timestamp the TTL check runs
// against. Entries are overwritten wholesale on refresh.
type CachedTrustedCircle struct {
	Contacts  []TrustedContact `json:"contacts"`
	Timestamp time.Time        `json:"timestamp"`
}

// ClaimRef names a claim by its predicate and object display labels.
type ClaimRef struct {
	PredicateLabel string `json:"predicate_label"`
	ObjectLabel    string `json:"object_label"`
}

// FamiliarContact is a trusted contact holding an opinion on some
// claim about the target other than the canonical trust claim.
// Claims are deduplicated by (predicate, object) label pair.
type FamiliarContact struct {
	AccountID string     `json:"account_id"`
	Label     string     `json:"label"`
	Claims    []ClaimRef `json:"claims"`
}

// TrustedCirclePositions is the cross-reference result: which
// trusted contacts are staked on each side of the claim, ordered by
// stake descending.
type TrustedCirclePositions struct {
	ForContacts     []TrustedContact `json:"for_contacts"`
	AgainstContacts []TrustedContact `json:"against_contacts"`
}

// NetworkFamiliarity reports trusted contacts with opinions on other
// claims about the target address.
type NetworkFamiliarity struct {
	FamiliarContacts        []FamiliarContact `json:"familiar_contacts"`
	TotalClaimsAboutAddress int               `json:"total_claims_about_address"`
}
