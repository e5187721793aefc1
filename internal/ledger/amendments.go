package ledger

import (
	"context"
	"slices"
)

const tokenEscrowAmendment = "TokenEscrow"

// SupportsTokenEscrow reports whether the node has the TokenEscrow amendment
// enabled. Probe failures are swallowed and read as "unsupported": settlement
// degrades to the direct-payment path instead of blocking the request.
// The probe is repeated per call, so a mid-flight amendment change is picked
// up at the cost of one extra round trip per settlement.
func SupportsTokenEscrow(ctx context.Context, client Client) bool {
	if client == nil {
		return false
	}
	info, err := client.ServerInfo(ctx)
	if err != nil {
		return false
	}
	enabled := info.Info.ValidatedLedger.Amendments
	if len(enabled) == 0 {
		enabled = info.Info.Amendments
	}
	return slices.Contains(enabled, tokenEscrowAmendment)
}
