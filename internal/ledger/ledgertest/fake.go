// Package ledgertest provides a controllable in-memory ledger.Client for
// settlement and lending tests.
package ledgertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/payhub-br/payhub-backend/internal/ledger"
)

// FakeClient implements ledger.Client with scripted behavior. Every submitted
// transaction is recorded so tests can assert on the exact wire shape.
type FakeClient struct {
	mu sync.Mutex

	// TokenEscrowEnabled controls the amendment probe result.
	TokenEscrowEnabled bool
	// ServerInfoErr makes the probe fail, exercising the fail-open path.
	ServerInfoErr error
	// AmendmentsAtTopLevel moves the amendment list to the legacy response
	// shape (info.amendments instead of info.validated_ledger.amendments).
	AmendmentsAtTopLevel bool

	// SubmitErr fails every submission.
	SubmitErr error

	// Funded collects faucet-funded addresses.
	Funded []string

	nextSequence uint32
	Submitted    []ledger.Transaction
	SubmitSeeds  []string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{TokenEscrowEnabled: true, nextSequence: 100}
}

func (f *FakeClient) ServerInfo(ctx context.Context) (*ledger.ServerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ServerInfoErr != nil {
		return nil, f.ServerInfoErr
	}
	info := &ledger.ServerInfo{}
	if f.TokenEscrowEnabled {
		if f.AmendmentsAtTopLevel {
			info.Info.Amendments = []string{"TokenEscrow", "Checks"}
		} else {
			info.Info.ValidatedLedger.Amendments = []string{"TokenEscrow", "Checks"}
		}
	} else if !f.AmendmentsAtTopLevel {
		info.Info.ValidatedLedger.Amendments = []string{"Checks"}
	}
	return info, nil
}

func (f *FakeClient) WalletPropose(ctx context.Context, seed string) (*ledger.Wallet, error) {
	if seed == "" {
		f.mu.Lock()
		f.nextSequence++
		n := f.nextSequence
		f.mu.Unlock()
		return &ledger.Wallet{
			Address: fmt.Sprintf("rGenerated%d", n),
			Seed:    fmt.Sprintf("sGenerated%d", n),
		}, nil
	}
	// Deterministic derivation keeps assertions stable across calls.
	return &ledger.Wallet{Address: "rAddrFor" + seed, Seed: seed}, nil
}

func (f *FakeClient) SubmitAndWait(ctx context.Context, seed string, tx ledger.Transaction) (*ledger.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}
	f.nextSequence++
	f.Submitted = append(f.Submitted, tx)
	f.SubmitSeeds = append(f.SubmitSeeds, seed)

	hash := fmt.Sprintf("HASH%08d", f.nextSequence)
	raw, _ := json.Marshal(map[string]any{
		"engine_result": "tesSUCCESS",
		"validated":     true,
		"hash":          hash,
	})
	return &ledger.SubmitResult{
		Hash:         hash,
		Sequence:     f.nextSequence,
		EngineResult: "tesSUCCESS",
		Validated:    true,
		Raw:          raw,
	}, nil
}

func (f *FakeClient) FundWallet(ctx context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Funded = append(f.Funded, address)
	return nil
}

// LastSubmitted returns the most recent transaction, or nil.
func (f *FakeClient) LastSubmitted() *ledger.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Submitted) == 0 {
		return nil
	}
	tx := f.Submitted[len(f.Submitted)-1]
	return &tx
}
