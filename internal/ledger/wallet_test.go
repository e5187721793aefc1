package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/payhub-br/payhub-backend/pkg/config"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
)

type walletClient struct {
	Client
}

func (walletClient) WalletPropose(ctx context.Context, seed string) (*Wallet, error) {
	return &Wallet{Address: "rDerived" + seed, Seed: seed}, nil
}

func TestResolvePrefersConfiguredSeed(t *testing.T) {
	src := NewOperatorSource(config.XRPLConfig{OperatorSeed: "sEnvSeed"}, walletClient{})
	src.SetOverride(Wallet{Address: "rOverride", Seed: "sOverride"})

	w, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Seed != "sEnvSeed" {
		t.Fatalf("configured seed must win over override, got %q", w.Seed)
	}
}

func TestResolveFallsBackToOverride(t *testing.T) {
	src := NewOperatorSource(config.XRPLConfig{}, walletClient{})

	if _, err := src.Resolve(context.Background()); pkgerrors.As(err).Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error without seed or override, got %v", err)
	}

	src.SetOverride(Wallet{Address: "rOverride", Seed: "sOverride"})
	w, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Address != "rOverride" {
		t.Fatalf("expected override wallet, got %q", w.Address)
	}
}

func TestOverrideLastWriteWinsUnderConcurrency(t *testing.T) {
	src := NewOperatorSource(config.XRPLConfig{}, walletClient{})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			src.SetOverride(Wallet{Address: "rA", Seed: "sA"})
		}()
		go func() {
			defer wg.Done()
			_, _ = src.Resolve(context.Background())
		}()
	}
	wg.Wait()

	w, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Address != "rA" {
		t.Fatalf("expected last written override, got %q", w.Address)
	}
}
