package ledger

import (
	"context"
	"encoding/json"
)

// Wallet is a ledger account identity. The seed never leaves this process
// except inside sign-and-submit requests to the configured node.
type Wallet struct {
	Address string
	Seed    string
}

// IssuedAmount is the {currency, issuer, value} triple used for token
// (IOU) denominated amounts.
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// Transaction is the flat tx_json shape submitted to the node. Amount holds
// either a drops string (native XRP) or an IssuedAmount. Zero-valued optional
// fields are omitted from the wire form, which matters for escrow semantics:
// a fallback Payment must carry no FinishAfter/CancelAfter at all.
type Transaction struct {
	TransactionType string        `json:"TransactionType"`
	Account         string        `json:"Account"`
	Destination     string        `json:"Destination,omitempty"`
	Amount          any           `json:"Amount,omitempty"`
	FinishAfter     int64         `json:"FinishAfter,omitempty"`
	CancelAfter     int64         `json:"CancelAfter,omitempty"`
	Owner           string        `json:"Owner,omitempty"`
	OfferSequence   uint32        `json:"OfferSequence,omitempty"`
	LimitAmount     *IssuedAmount `json:"LimitAmount,omitempty"`
}

// ServerInfo mirrors the slice of the server_info response the gateway needs.
// Amendments show up under validated_ledger on current rippled builds and at
// the info top level on older ones; both shapes are kept.
type ServerInfo struct {
	Info struct {
		Amendments      []string `json:"amendments"`
		ValidatedLedger struct {
			Amendments []string `json:"amendments"`
		} `json:"validated_ledger"`
	} `json:"info"`
}

// SubmitResult is the normalized outcome of a signed submission.
type SubmitResult struct {
	Hash         string
	Sequence     uint32
	EngineResult string
	Validated    bool
	// Raw is the node's full result object, passed through to API callers.
	Raw json.RawMessage
}

// Client is the port to the distributed ledger. The settlement engine talks
// only to this interface, never to a node library directly.
type Client interface {
	// ServerInfo queries node status, including enabled amendments.
	ServerInfo(ctx context.Context) (*ServerInfo, error)

	// WalletPropose derives the wallet for a seed, or generates a fresh
	// wallet when seed is empty.
	WalletPropose(ctx context.Context, seed string) (*Wallet, error)

	// SubmitAndWait signs tx with the given seed on the node and submits it,
	// waiting for ledger validation within the client's configured timeout.
	SubmitAndWait(ctx context.Context, seed string, tx Transaction) (*SubmitResult, error)

	// FundWallet asks the testnet faucet to fund the address.
	FundWallet(ctx context.Context, address string) error
}
