package ledger

import (
	"context"
	"sync"

	"github.com/payhub-br/payhub-backend/pkg/config"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
)

// OperatorSource resolves the wallet that signs every ledger submission.
// A configured seed always wins; otherwise the override set by the testnet
// setup flow is used. The override slot is last-write-wins but guarded so
// concurrent settlements never observe a torn wallet value.
type OperatorSource struct {
	cfg    config.XRPLConfig
	client Client

	mu       sync.RWMutex
	override *Wallet
}

func NewOperatorSource(cfg config.XRPLConfig, client Client) *OperatorSource {
	return &OperatorSource{cfg: cfg, client: client}
}

// SetOverride replaces the generated operator wallet. All in-flight and
// future settlements pick up the new identity on their next Resolve call.
func (s *OperatorSource) SetOverride(w Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = &w
}

// Resolve returns the current operator wallet. The configured seed is
// re-derived per call so the address always matches what the node computes.
func (s *OperatorSource) Resolve(ctx context.Context) (Wallet, error) {
	if seed := s.cfg.SigningSeed(); seed != "" {
		derived, err := s.client.WalletPropose(ctx, seed)
		if err != nil {
			return Wallet{}, pkgerrors.Wrap(pkgerrors.CodeSettlement, err, "derive operator wallet")
		}
		return *derived, nil
	}

	s.mu.RLock()
	override := s.override
	s.mu.RUnlock()
	if override != nil {
		return *override, nil
	}

	return Wallet{}, pkgerrors.New(pkgerrors.CodeConfiguration,
		"set PAYHUB_OPERATOR_SEED or PAYHUB_SEED, or call /xrpl/setup to generate an operator wallet")
}
