// Package engine orchestrates one transaction-insight request: it
// joins the account, origin, and trusted-circle lookups, runs the
// combined trust and distribution analysis, and emits the
// serializable report the rendering layer consumes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trust_insight/pkg/analysis"
	"trust_insight/pkg/circle"
	"trust_insight/pkg/provider"
)

// InsightState tags which variant of the report the rendering layer
// must draw. Exactly one applies per report.
type InsightState string

const (
	// StateNoAtom: the target address is unknown to the protocol.
	StateNoAtom InsightState = "no-atom"
	// StateAtomWithoutTrustTriple: the address has an identity but no
	// trust claim staked on it.
	StateAtomWithoutTrustTriple InsightState = "atom-without-trust-triple"
	// StateAtomWithTrustTriple: full analysis available.
	StateAtomWithTrustTriple InsightState = "atom-with-trust-triple"
)

// Request identifies one outgoing transaction to annotate.
type Request struct {
	TargetAddress string `json:"target_address"`
	Origin        string `json:"origin,omitempty"`
	UserAddress   string `json:"user_address,omitempty"`
}

// Report is the engine's output contract: plain serializable data
// with no embedded behavior.
type Report struct {
	RequestID     string                              `json:"request_id"`
	State         InsightState                        `json:"state"`
	TargetAddress string                              `json:"target_address"`
	Origin        string                              `json:"origin,omitempty"`
	AccountAtom   *provider.Atom                      `json:"account_atom,omitempty"`
	OriginAtom    *provider.Atom                      `json:"origin_atom,omitempty"`
	TrustAnalysis   *analysis.TrustDistributionAnalysis `json:"trust_analysis,omitempty"`
	CirclePositions *circle.TrustedCirclePositions      `json:"circle_positions,omitempty"`
	Familiarity     *circle.NetworkFamiliarity          `json:"familiarity,omitempty"`
	GeneratedAt   time.Time                           `json:"generated_at"`
}

// Engine computes insight reports.
type Engine struct {
	provider  provider.Provider
	circleSvc *circle.Service
	logger    *zap.Logger
}

// New creates an insight engine.
func New(p provider.Provider, circleSvc *circle.Service, logger *zap.Logger) *Engine {
	return &Engine{
		provider:  p,
		circleSvc: circleSvc,
		logger:    logger,
	}
}

// Analyze produces the insight report for one request. The account,
// origin, and trusted-circle lookups run concurrently and are joined
// before analysis. A trusted-circle or trust-claim fetch failure
// surfaces to the caller; missing records do not.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RequestID:     uuid.New().String(),
		TargetAddress: req.TargetAddress,
		Origin:        req.Origin,
		GeneratedAt:   time.Now().UTC(),
	}
	log := e.logger.With(zap.String("requestId", report.RequestID))

	var (
		wg          sync.WaitGroup
		accountAtom *provider.Atom
		originAtom  *provider.Atom
		trustCircle []circle.TrustedContact
		accountErr  error
		originErr   error
		circleErr   error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		accountAtom, accountErr = e.provider.GetAccountAtom(ctx, req.TargetAddress)
	}()

	if req.Origin != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			originAtom, originErr = e.provider.GetOriginAtom(ctx, req.Origin)
		}()
	}

	if req.UserAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trustCircle, circleErr = e.circleSvc.GetTrustedCircle(ctx, req.UserAddress)
		}()
	}

	wg.Wait()

	if accountErr != nil && !errors.Is(accountErr, provider.ErrNotFound) {
		return nil, fmt.Errorf("resolving account: %w", accountErr)
	}
	if originErr != nil && !errors.Is(originErr, provider.ErrNotFound) {
		return nil, fmt.Errorf("resolving origin: %w", originErr)
	}
	if circleErr != nil {
		return nil, fmt.Errorf("fetching trusted circle: %w", circleErr)
	}

	report.AccountAtom = accountAtom
	report.OriginAtom = originAtom

	if accountAtom == nil {
		report.State = StateNoAtom
		return report, nil
	}

	triple, err := e.provider.GetTrustTriple(ctx, req.TargetAddress)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			report.State = StateAtomWithoutTrustTriple
			return report, nil
		}
		return nil, fmt.Errorf("fetching trust claim: %w", err)
	}

	report.State = StateAtomWithTrustTriple
	combined := analysis.Combine(triple)
	report.TrustAnalysis = &combined

	if len(trustCircle) > 0 {
		positions := e.circleSvc.CrossReferencePositions(
			trustCircle, triple.Vault.Positions, triple.CounterVault.Positions, req.UserAddress)
		positions = e.circleSvc.EnrichContactLabels(ctx, positions)
		report.CirclePositions = &positions

		displayed := make([]string, 0, len(positions.ForContacts)+len(positions.AgainstContacts))
		for _, c := range positions.ForContacts {
			displayed = append(displayed, c.AccountID)
		}
		for _, c := range positions.AgainstContacts {
			displayed = append(displayed, c.AccountID)
		}

		report.Familiarity = e.circleSvc.NetworkFamiliarity(
			ctx, triple.Subject.ID, triple.ID, trustCircle, displayed, req.UserAddress)
	}

	log.Debug("Insight computed",
		zap.String("target", req.TargetAddress),
		zap.String("state", string(report.State)),
		zap.String("trustLevel", trustLevelField(report)))

	return report, nil
}

func trustLevelField(r *Report) string {
	if r.TrustAnalysis == nil {
		return ""
	}
	return string(r.TrustAnalysis.TrustLevel)
}
