// Package provider defines the data provider contract the insight
// engine consumes: atom, triple, vault, and position records as served
// by the reputation protocol's query API, plus the fixed-point decimal
// handling those records require.
package provider

import (
	"errors"
)

// Error variables for consistent error handling
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidStake = errors.New("invalid stake value")
	ErrQueryFailed  = errors.New("provider query failed")
)

// MaxPositionsPerVault bounds how many individual positions a vault
// query returns, ordered by stake descending. Beyond this the engine
// falls back to aggregate estimation.
const MaxPositionsPerVault = 30

// Atom is an identity record: an account, origin, or concept that
// claims can be made about.
type Atom struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Data  string `json:"data,omitempty"`
	Image string `json:"image,omitempty"`
}

// Position is one account's stake on one vault. Shares is a
// fixed-point integer with 18 fractional digits, serialized as a
// decimal string, and must be compared with exact integer arithmetic.
type Position struct {
	AccountID    string `json:"account_id"`
	AccountLabel string `json:"account_label,omitempty"`
	Shares       string `json:"shares"`
}

// Vault is the pool of stake on one side of a claim.
type Vault struct {
	MarketCap     string     `json:"market_cap"`
	PositionCount int        `json:"position_count"`
	Positions     []Position `json:"positions,omitempty"`
}

// AggregateStats summarizes a vault's positions when individual
// positions were not requested. Sum and Avg carry the same
// fixed-point encoding as Position.Shares.
type AggregateStats struct {
	Count int    `json:"count"`
	Sum   string `json:"sum"`
	Avg   string `json:"avg"`
}

// Triple is a subject-predicate-object claim with two opposing
// vaults: Vault holds the supporting stake, CounterVault the opposing
// stake.
type Triple struct {
	ID           string          `json:"id"`
	Subject      Atom            `json:"subject"`
	Predicate    Atom            `json:"predicate"`
	Object       Atom            `json:"object"`
	Vault        Vault           `json:"vault"`
	CounterVault Vault           `json:"counter_vault"`
	VaultStats   *AggregateStats `json:"vault_stats,omitempty"`
	CounterStats *AggregateStats `json:"counter_stats,omitempty"`
}

// TrustedPosition is one claim on the canonical trust predicate where
// the querying user holds a supporting stake: the subject is the
// account the user vouched for, Shares the user's stake on it.
type TrustedPosition struct {
	Subject Atom   `json:"subject"`
	Shares  string `json:"shares"`
}
