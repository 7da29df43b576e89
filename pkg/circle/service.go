package circle

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"trust_insight/pkg/provider"
)

// Service fetches and cross-references the user's trusted circle.
type Service struct {
	provider provider.Provider
	cache    *Cache
	logger   *zap.Logger
}

// NewService creates a trusted-circle service.
func NewService(p provider.Provider, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		provider: p,
		cache:    cache,
		logger:   logger,
	}
}

// GetTrustedCircle returns the accounts userAddress has staked FOR on
// the canonical trust claim, cache-aside through the TTL cache.
// Provider failures propagate: a partial trusted circle is worse than
// none.
func (s *Service) GetTrustedCircle(ctx context.Context, userAddress string) ([]TrustedContact, error) {
	if contacts, ok := s.cache.Get(ctx, userAddress); ok {
		return contacts, nil
	}
	return s.RefreshTrustedCircle(ctx, userAddress)
}

// RefreshTrustedCircle refetches the trusted circle from the provider
// and writes through to the cache, bypassing any cached entry.
func (s *Service) RefreshTrustedCircle(ctx context.Context, userAddress string) ([]TrustedContact, error) {
	positions, err := s.provider.GetTrustedPositions(ctx, userAddress)
	if err != nil {
		return nil, fmt.Errorf("fetching trusted positions: %w", err)
	}

	seen := make(map[string]bool)
	contacts := make([]TrustedContact, 0, len(positions))
	for _, tp := range positions {
		// Prefer the structured data field over the free-text label;
		// both must be well-formed addresses.
		var accountID string
		switch {
		case provider.IsAccountAddress(tp.Subject.Data):
			accountID = tp.Subject.Data
		case provider.IsAccountAddress(tp.Subject.Label):
			accountID = tp.Subject.Label
		default:
			continue
		}

		norm := provider.NormalizeAddress(accountID)
		if seen[norm] {
			continue
		}
		seen[norm] = true

		contacts = append(contacts, TrustedContact{
			AccountID: accountID,
			Label:     tp.Subject.Label,
			Shares:    tp.Shares,
		})
	}

	if err := s.cache.Set(ctx, userAddress, contacts); err != nil {
		s.logger.Warn("Trusted circle cache write failed",
			zap.String("user", userAddress),
			zap.Error(err))
	}

	return contacts, nil
}

// contactIndex maps normalized addresses to their trusted-circle
// entry.
func contactIndex(circle []TrustedContact) map[string]TrustedContact {
	idx := make(map[string]TrustedContact, len(circle))
	for _, c := range circle {
		idx[provider.NormalizeAddress(c.AccountID)] = c
	}
	return idx
}

// CrossReferencePositions filters a claim's position lists down to
// trusted-circle members, excluding the requesting user, and orders
// each side by stake descending using exact integer comparison.
func (s *Service) CrossReferencePositions(circle []TrustedContact, forPositions, againstPositions []provider.Position, userAddress string) TrustedCirclePositions {
	idx := contactIndex(circle)
	self := provider.NormalizeAddress(userAddress)

	match := func(positions []provider.Position) []TrustedContact {
		out := []TrustedContact{}
		for _, p := range positions {
			norm := provider.NormalizeAddress(p.AccountID)
			if norm == self {
				continue
			}
			member, ok := idx[norm]
			if !ok {
				continue
			}

			// Label priority: cached circle label, the position's own
			// account label, then the truncated address.
			label := member.Label
			if label == "" {
				label = p.AccountLabel
			}
			if label == "" {
				label = provider.TruncateAddress(p.AccountID)
			}

			out = append(out, TrustedContact{
				AccountID: p.AccountID,
				Label:     label,
				Shares:    p.Shares,
			})
		}
		sort.SliceStable(out, func(i, j int) bool {
			return provider.CompareStakes(out[i].Shares, out[j].Shares) > 0
		})
		return out
	}

	return TrustedCirclePositions{
		ForContacts:     match(forPositions),
		AgainstContacts: match(againstPositions),
	}
}

// NetworkFamiliarity discovers trusted contacts holding opinions on
// claims about subjectID other than the canonical trust claim.
// Returns nil when there are none; provider failures also degrade to
// nil since this is an enhancement-only signal.
func (s *Service) NetworkFamiliarity(ctx context.Context, subjectID, excludeTripleID string, circle []TrustedContact, alreadyDisplayed []string, userAddress string) *NetworkFamiliarity {
	triples, err := s.provider.GetTriplesAboutSubject(ctx, subjectID, excludeTripleID)
	if err != nil {
		s.logger.Warn("Network familiarity lookup failed",
			zap.String("subject", subjectID),
			zap.Error(err))
		return nil
	}
	if len(triples) == 0 {
		return nil
	}

	idx := contactIndex(circle)
	self := provider.NormalizeAddress(userAddress)
	shown := make(map[string]bool, len(alreadyDisplayed))
	for _, a := range alreadyDisplayed {
		shown[provider.NormalizeAddress(a)] = true
	}

	type accum struct {
		contact FamiliarContact
		claims  map[ClaimRef]bool
	}
	byAccount := make(map[string]*accum)
	var order []string

	for _, t := range triples {
		claim := ClaimRef{
			PredicateLabel: t.Predicate.Label,
			ObjectLabel:    t.Object.Label,
		}
		positions := append(append([]provider.Position{}, t.Vault.Positions...), t.CounterVault.Positions...)
		for _, p := range positions {
			norm := provider.NormalizeAddress(p.AccountID)
			if norm == self || shown[norm] {
				continue
			}
			member, ok := idx[norm]
			if !ok {
				continue
			}

			a, ok := byAccount[norm]
			if !ok {
				label := member.Label
				if label == "" {
					label = provider.TruncateAddress(p.AccountID)
				}
				a = &accum{
					contact: FamiliarContact{AccountID: p.AccountID, Label: label},
					claims:  make(map[ClaimRef]bool),
				}
				byAccount[norm] = a
				order = append(order, norm)
			}
			if !a.claims[claim] {
				a.claims[claim] = true
				a.contact.Claims = append(a.contact.Claims, claim)
			}
		}
	}

	if len(byAccount) == 0 {
		return nil
	}

	contacts := make([]FamiliarContact, 0, len(byAccount))
	for _, norm := range order {
		contacts = append(contacts, byAccount[norm].contact)
	}

	return &NetworkFamiliarity{
		FamiliarContacts:        contacts,
		TotalClaimsAboutAddress: len(triples),
	}
}

// EnrichContactLabels resolves human-readable names for the contacts
// in a cross-reference result. Provider failures degrade to truncated
// addresses; this never fails the overall request.
func (s *Service) EnrichContactLabels(ctx context.Context, positions TrustedCirclePositions) TrustedCirclePositions {
	addresses := make([]string, 0, len(positions.ForContacts)+len(positions.AgainstContacts))
	for _, c := range positions.ForContacts {
		addresses = append(addresses, c.AccountID)
	}
	for _, c := range positions.AgainstContacts {
		addresses = append(addresses, c.AccountID)
	}
	if len(addresses) == 0 {
		return positions
	}

	resolved := make(map[string]string)
	atoms, err := s.provider.GetAtomsByAddresses(ctx, addresses)
	if err != nil {
		s.logger.Warn("Label enrichment lookup failed", zap.Error(err))
	} else {
		for _, atom := range atoms {
			// Only a label that is not itself a bare address counts as
			// resolved.
			if atom.Label == "" || provider.IsAccountAddress(atom.Label) {
				continue
			}
			if provider.IsAccountAddress(atom.Data) {
				resolved[provider.NormalizeAddress(atom.Data)] = atom.Label
			}
		}
	}

	apply := func(contacts []TrustedContact) []TrustedContact {
		out := make([]TrustedContact, len(contacts))
		for i, c := range contacts {
			if name, ok := resolved[provider.NormalizeAddress(c.AccountID)]; ok {
				c.Label = name
			} else if provider.IsAccountAddress(c.Label) || c.Label == "" {
				c.Label = provider.TruncateAddress(c.AccountID)
			}
			out[i] = c
		}
		return out
	}

	return TrustedCirclePositions{
		ForContacts:     apply(positions.ForContacts),
		AgainstContacts: apply(positions.AgainstContacts),
	}
}
