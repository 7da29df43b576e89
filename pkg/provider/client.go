package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ClientConfig holds settings for the GraphQL client.
type ClientConfig struct {
	Endpoint         string
	Timeout          time.Duration
	TrustPredicateID string
	TrustObjectID    string
}

// Client implements Provider against the reputation protocol's
// GraphQL endpoint.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	predicateID string
	objectID    string
	logger      *zap.Logger
}

// NewClient creates a new GraphQL provider client.
func NewClient(cfg *ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("provider endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		httpClient:  &http.Client{Timeout: timeout},
		predicateID: cfg.TrustPredicateID,
		objectID:    cfg.TrustObjectID,
		logger:      logger,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

// query posts a GraphQL document and decodes the data payload into
// out.
func (c *Client) query(ctx context.Context, doc string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrQueryFailed, resp.StatusCode)
	}

	var gr graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrQueryFailed, gr.Errors[0].Message)
	}
	if gr.Data == nil {
		return ErrNotFound
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// Wire shapes. The API nests position accounts and exposes vaults as
// term objects; these mirror only the fields the engine reads.

type wireAtom struct {
	TermID string `json:"term_id"`
	Label  string `json:"label"`
	Data   string `json:"data"`
	Image  string `json:"image"`
}

func (w wireAtom) toAtom() Atom {
	return Atom{ID: w.TermID, Label: w.Label, Data: w.Data, Image: w.Image}
}

type wirePosition struct {
	Shares  string `json:"shares"`
	Account struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"account"`
}

type wireVault struct {
	MarketCap          string         `json:"market_cap"`
	PositionCount      int            `json:"position_count"`
	Positions          []wirePosition `json:"positions"`
	PositionsAggregate *struct {
		Aggregate struct {
			Count int `json:"count"`
			Sum   struct {
				Shares string `json:"shares"`
			} `json:"sum"`
			Avg struct {
				Shares string `json:"shares"`
			} `json:"avg"`
		} `json:"aggregate"`
	} `json:"positions_aggregate"`
}

func (w wireVault) toVault() Vault {
	v := Vault{
		MarketCap:     w.MarketCap,
		PositionCount: w.PositionCount,
	}
	for _, p := range w.Positions {
		v.Positions = append(v.Positions, Position{
			AccountID:    p.Account.ID,
			AccountLabel: p.Account.Label,
			Shares:       p.Shares,
		})
	}
	return v
}

func (w wireVault) toStats() *AggregateStats {
	if w.PositionsAggregate == nil {
		return nil
	}
	agg := w.PositionsAggregate.Aggregate
	return &AggregateStats{Count: agg.Count, Sum: agg.Sum.Shares, Avg: agg.Avg.Shares}
}

type wireTriple struct {
	TermID       string    `json:"term_id"`
	Subject      wireAtom  `json:"subject"`
	Predicate    wireAtom  `json:"predicate"`
	Object       wireAtom  `json:"object"`
	Vault        wireVault `json:"vault"`
	CounterVault wireVault `json:"counter_vault"`
}

func (w wireTriple) toTriple() Triple {
	return Triple{
		ID:           w.TermID,
		Subject:      w.Subject.toAtom(),
		Predicate:    w.Predicate.toAtom(),
		Object:       w.Object.toAtom(),
		Vault:        w.Vault.toVault(),
		CounterVault: w.CounterVault.toVault(),
		VaultStats:   w.Vault.toStats(),
		CounterStats: w.CounterVault.toStats(),
	}
}

const atomByDataQuery = `
query AtomByData($data: String!) {
  atoms(where: {data: {_eq: $data}}, limit: 1) {
    term_id label data image
  }
}`

const trustTripleQuery = `
query TrustTriple($subject: String!, $predicate: String!, $object: String!, $limit: Int!) {
  triples(where: {
    subject: {data: {_ilike: $subject}},
    predicate: {term_id: {_eq: $predicate}},
    object: {term_id: {_eq: $object}}
  }, limit: 1) {
    term_id
    subject { term_id label data image }
    predicate { term_id label data image }
    object { term_id label data image }
    vault {
      market_cap position_count
      positions(order_by: {shares: desc}, limit: $limit) {
        shares account { id label }
      }
      positions_aggregate { aggregate { count sum { shares } avg { shares } } }
    }
    counter_vault {
      market_cap position_count
      positions(order_by: {shares: desc}, limit: $limit) {
        shares account { id label }
      }
      positions_aggregate { aggregate { count sum { shares } avg { shares } } }
    }
  }
}`

const trustedPositionsQuery = `
query TrustedPositions($account: String!, $predicate: String!, $object: String!) {
  triples(where: {
    predicate: {term_id: {_eq: $predicate}},
    object: {term_id: {_eq: $object}},
    vault: {positions: {account_id: {_ilike: $account}}}
  }) {
    subject { term_id label data image }
    vault {
      positions(where: {account_id: {_ilike: $account}}, limit: 1) {
        shares account { id label }
      }
    }
  }
}`

const triplesAboutSubjectQuery = `
query TriplesAboutSubject($subject: String!, $exclude: String!, $limit: Int!) {
  triples(where: {
    subject: {term_id: {_eq: $subject}},
    term_id: {_neq: $exclude}
  }) {
    term_id
    subject { term_id label data image }
    predicate { term_id label data image }
    object { term_id label data image }
    vault {
      market_cap position_count
      positions(order_by: {shares: desc}, limit: $limit) {
        shares account { id label }
      }
    }
    counter_vault {
      market_cap position_count
      positions(order_by: {shares: desc}, limit: $limit) {
        shares account { id label }
      }
    }
  }
}`

const atomsByAddressesQuery = `
query AtomsByAddresses($addresses: [String!]!) {
  atoms(where: {_or: [
    {data: {_in: $addresses}},
    {label: {_in: $addresses}}
  ]}) {
    term_id label data image
  }
}`

// GetAccountAtom resolves the atom identifying an account address.
func (c *Client) GetAccountAtom(ctx context.Context, address string) (*Atom, error) {
	return c.atomByData(ctx, NormalizeAddress(address))
}

// GetOriginAtom resolves the atom identifying a web origin.
func (c *Client) GetOriginAtom(ctx context.Context, originURI string) (*Atom, error) {
	return c.atomByData(ctx, originURI)
}

func (c *Client) atomByData(ctx context.Context, data string) (*Atom, error) {
	var out struct {
		Atoms []wireAtom `json:"atoms"`
	}
	err := c.query(ctx, atomByDataQuery, map[string]any{"data": data}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Atoms) == 0 {
		return nil, ErrNotFound
	}
	atom := out.Atoms[0].toAtom()
	return &atom, nil
}

// GetTrustTriple fetches the canonical trust claim about a subject.
func (c *Client) GetTrustTriple(ctx context.Context, subjectAddress string) (*Triple, error) {
	var out struct {
		Triples []wireTriple `json:"triples"`
	}
	vars := map[string]any{
		"subject":   NormalizeAddress(subjectAddress),
		"predicate": c.predicateID,
		"object":    c.objectID,
		"limit":     MaxPositionsPerVault,
	}
	if err := c.query(ctx, trustTripleQuery, vars, &out); err != nil {
		return nil, err
	}
	if len(out.Triples) == 0 {
		return nil, ErrNotFound
	}
	triple := out.Triples[0].toTriple()
	return &triple, nil
}

// GetTrustedPositions lists claims on the canonical trust pair where
// userAddress holds a supporting stake.
func (c *Client) GetTrustedPositions(ctx context.Context, userAddress string) ([]TrustedPosition, error) {
	var out struct {
		Triples []wireTriple `json:"triples"`
	}
	vars := map[string]any{
		"account":   NormalizeAddress(userAddress),
		"predicate": c.predicateID,
		"object":    c.objectID,
	}
	if err := c.query(ctx, trustedPositionsQuery, vars, &out); err != nil {
		return nil, err
	}

	positions := make([]TrustedPosition, 0, len(out.Triples))
	for _, t := range out.Triples {
		tp := TrustedPosition{Subject: t.Subject.toAtom()}
		if len(t.Vault.Positions) > 0 {
			tp.Shares = t.Vault.Positions[0].Shares
		}
		positions = append(positions, tp)
	}
	return positions, nil
}

// GetTriplesAboutSubject lists claims about a subject other than the
// excluded triple.
func (c *Client) GetTriplesAboutSubject(ctx context.Context, subjectID, excludeTripleID string) ([]Triple, error) {
	var out struct {
		Triples []wireTriple `json:"triples"`
	}
	vars := map[string]any{
		"subject": subjectID,
		"exclude": excludeTripleID,
		"limit":   MaxPositionsPerVault,
	}
	if err := c.query(ctx, triplesAboutSubjectQuery, vars, &out); err != nil {
		return nil, err
	}

	triples := make([]Triple, 0, len(out.Triples))
	for _, t := range out.Triples {
		triples = append(triples, t.toTriple())
	}
	return triples, nil
}

// GetAtomsByAddresses batch-resolves atoms matching the given
// addresses. Both original and lowercased forms are queried to
// tolerate case-insensitive storage.
func (c *Client) GetAtomsByAddresses(ctx context.Context, addresses []string) ([]Atom, error) {
	seen := make(map[string]bool, len(addresses)*2)
	variants := make([]string, 0, len(addresses)*2)
	for _, a := range addresses {
		for _, v := range []string{a, NormalizeAddress(a)} {
			if v != "" && !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
	}

	var out struct {
		Atoms []wireAtom `json:"atoms"`
	}
	if err := c.query(ctx, atomsByAddressesQuery, map[string]any{"addresses": variants}, &out); err != nil {
		return nil, err
	}

	atoms := make([]Atom, 0, len(out.Atoms))
	for _, a := range out.Atoms {
		atoms = append(atoms, a.toAtom())
	}
	return atoms, nil
}

var _ Provider = (*Client)(nil)
