package ledger

import (
	"context"
	"errors"
	"testing"
)

type scriptedClient struct {
	Client
	info *ServerInfo
	err  error
}

func (s *scriptedClient) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	return s.info, s.err
}

func TestSupportsTokenEscrowValidatedLedgerShape(t *testing.T) {
	info := &ServerInfo{}
	info.Info.ValidatedLedger.Amendments = []string{"Checks", "TokenEscrow"}
	if !SupportsTokenEscrow(context.Background(), &scriptedClient{info: info}) {
		t.Fatal("expected token escrow support")
	}
}

func TestSupportsTokenEscrowLegacyShape(t *testing.T) {
	info := &ServerInfo{}
	info.Info.Amendments = []string{"TokenEscrow"}
	if !SupportsTokenEscrow(context.Background(), &scriptedClient{info: info}) {
		t.Fatal("expected token escrow support from legacy amendment list")
	}
}

func TestSupportsTokenEscrowAbsentAmendment(t *testing.T) {
	info := &ServerInfo{}
	info.Info.ValidatedLedger.Amendments = []string{"Checks"}
	if SupportsTokenEscrow(context.Background(), &scriptedClient{info: info}) {
		t.Fatal("expected no token escrow support")
	}
}

func TestSupportsTokenEscrowFailsOpenToFalse(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}
	if SupportsTokenEscrow(context.Background(), client) {
		t.Fatal("probe failure must read as unsupported")
	}
	if SupportsTokenEscrow(context.Background(), nil) {
		t.Fatal("nil client must read as unsupported")
	}
}
