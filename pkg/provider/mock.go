package provider

import (
	"context"
)

// MockProvider implements Provider with overridable function fields.
// Unset fields return ErrNotFound or empty results.
type MockProvider struct {
	GetAccountAtomFn         func(ctx context.Context, address string) (*Atom, error)
	GetOriginAtomFn          func(ctx context.Context, originURI string) (*Atom, error)
	GetTrustTripleFn         func(ctx context.Context, subjectAddress string) (*Triple, error)
	GetTrustedPositionsFn    func(ctx context.Context, userAddress string) ([]TrustedPosition, error)
	GetTriplesAboutSubjectFn func(ctx context.Context, subjectID, excludeTripleID string) ([]Triple, error)
	GetAtomsByAddressesFn    func(ctx context.Context, addresses []string) ([]Atom, error)
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) GetAccountAtom(ctx context.Context, address string) (*Atom, error) {
	if m.GetAccountAtomFn != nil {
		return m.GetAccountAtomFn(ctx, address)
	}
	return nil, ErrNotFound
}

func (m *MockProvider) GetOriginAtom(ctx context.Context, originURI string) (*Atom, error) {
	if m.GetOriginAtomFn != nil {
		return m.GetOriginAtomFn(ctx, originURI)
	}
	return nil, ErrNotFound
}

func (m *MockProvider) GetTrustTriple(ctx context.Context, subjectAddress string) (*Triple, error) {
	if m.GetTrustTripleFn != nil {
		return m.GetTrustTripleFn(ctx, subjectAddress)
	}
	return nil, ErrNotFound
}

func (m *MockProvider) GetTrustedPositions(ctx context.Context, userAddress string) ([]TrustedPosition, error) {
	if m.GetTrustedPositionsFn != nil {
		return m.GetTrustedPositionsFn(ctx, userAddress)
	}
	return nil, nil
}

func (m *MockProvider) GetTriplesAboutSubject(ctx context.Context, subjectID, excludeTripleID string) ([]Triple, error) {
	if m.GetTriplesAboutSubjectFn != nil {
		return m.GetTriplesAboutSubjectFn(ctx, subjectID, excludeTripleID)
	}
	return nil, nil
}

func (m *MockProvider) GetAtomsByAddresses(ctx context.Context, addresses []string) ([]Atom, error) {
	if m.GetAtomsByAddressesFn != nil {
		return m.GetAtomsByAddressesFn(ctx, addresses)
	}
	return nil, nil
}
