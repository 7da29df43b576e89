package provider

import (
	"context"
)

// Provider defines the query interface the engine consumes. All
// methods are independent suspension points; implementations own
// their timeout policy.
type Provider interface {
	// GetAccountAtom resolves the atom identifying an account address.
	GetAccountAtom(ctx context.Context, address string) (*Atom, error)

	// GetOriginAtom resolves the atom identifying a web origin.
	GetOriginAtom(ctx context.Context, originURI string) (*Atom, error)

	// GetTrustTriple fetches the canonical trust claim about a subject
	// address, including up to MaxPositionsPerVault positions per side
	// and aggregate stats for both vaults.
	GetTrustTriple(ctx context.Context, subjectAddress string) (*Triple, error)

	// GetTrustedPositions lists every claim on the canonical trust
	// predicate/object pair where userAddress holds a supporting
	// stake.
	GetTrustedPositions(ctx context.Context, userAddress string) ([]TrustedPosition, error)

	// GetTriplesAboutSubject lists claims about a subject other than
	// the triple identified by excludeTripleID, with positions on both
	// vaults.
	GetTriplesAboutSubject(ctx context.Context, subjectID, excludeTripleID string) ([]Triple, error)

	// GetAtomsByAddresses batch-resolves atoms whose data or label
	// matches any of the given addresses.
	GetAtomsByAddresses(ctx context.Context, addresses []string) ([]Atom, error)
}
