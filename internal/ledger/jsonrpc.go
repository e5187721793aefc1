package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/payhub-br/payhub-backend/pkg/config"
)

const submitPollInterval = time.Second

// JSONRPCClient drives a rippled node over its JSON-RPC API. Signing happens
// on the node (sign-and-submit mode), so no transaction cryptography lives in
// this process.
type JSONRPCClient struct {
	serverURL string
	faucetURL string
	timeout   time.Duration
	http      *http.Client
}

// NewJSONRPCClient builds a client for the configured node and faucet.
func NewJSONRPCClient(cfg config.XRPLConfig) *JSONRPCClient {
	timeout := cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JSONRPCClient{
		serverURL: cfg.ServerURL,
		faucetURL: cfg.FaucetURL,
		timeout:   timeout,
		http:      &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := rpcRequest{Method: method}
	if params != nil {
		req.Params = []any{params}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: node returned HTTP %d", method, resp.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err == nil && status.Status == "error" {
		msg := status.ErrorMessage
		if msg == "" {
			msg = status.Error
		}
		return nil, fmt.Errorf("%s: %s", method, msg)
	}

	return envelope.Result, nil
}

func (c *JSONRPCClient) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	raw, err := c.call(ctx, "server_info", nil)
	if err != nil {
		return nil, err
	}
	var info ServerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode server_info: %w", err)
	}
	return &info, nil
}

func (c *JSONRPCClient) WalletPropose(ctx context.Context, seed string) (*Wallet, error) {
	params := map[string]any{}
	if seed != "" {
		params["seed"] = seed
	}
	raw, err := c.call(ctx, "wallet_propose", params)
	if err != nil {
		return nil, err
	}
	var proposed struct {
		AccountID  string `json:"account_id"`
		MasterSeed string `json:"master_seed"`
	}
	if err := json.Unmarshal(raw, &proposed); err != nil {
		return nil, fmt.Errorf("decode wallet_propose: %w", err)
	}
	if proposed.AccountID == "" {
		return nil, fmt.Errorf("wallet_propose returned no account")
	}
	wallet := &Wallet{Address: proposed.AccountID, Seed: proposed.MasterSeed}
	if seed != "" {
		wallet.Seed = seed
	}
	return wallet, nil
}

func (c *JSONRPCClient) SubmitAndWait(ctx context.Context, seed string, tx Transaction) (*SubmitResult, error) {
	raw, err := c.call(ctx, "submit", map[string]any{
		"secret":  seed,
		"tx_json": tx,
	})
	if err != nil {
		return nil, err
	}

	var submitted struct {
		EngineResult string `json:"engine_result"`
		TxJSON       struct {
			Hash     string `json:"hash"`
			Sequence uint32 `json:"Sequence"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return nil, fmt.Errorf("decode submit response: %w", err)
	}

	result := &SubmitResult{
		Hash:         submitted.TxJSON.Hash,
		Sequence:     submitted.TxJSON.Sequence,
		EngineResult: submitted.EngineResult,
		Raw:          raw,
	}

	if validated := c.waitForValidation(ctx, result.Hash); validated != nil {
		result.Validated = true
		result.Raw = validated
	}
	return result, nil
}

// waitForValidation polls the tx method until the transaction is included in
// a validated ledger or the timeout lapses. A timeout is not an error: the
// provisional submit result is returned and the caller can re-query later.
func (c *JSONRPCClient) waitForValidation(ctx context.Context, hash string) json.RawMessage {
	if hash == "" {
		return nil
	}

	deadline := time.Now().Add(c.timeout)
	ticker := time.NewTicker(submitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return nil
		}

		raw, err := c.call(ctx, "tx", map[string]any{"transaction": hash})
		if err != nil {
			continue
		}
		var status struct {
			Validated bool `json:"validated"`
		}
		if err := json.Unmarshal(raw, &status); err != nil {
			continue
		}
		if status.Validated {
			return raw
		}
	}
}

func (c *JSONRPCClient) FundWallet(ctx context.Context, address string) error {
	if c.faucetURL == "" {
		return fmt.Errorf("no faucet configured")
	}
	body, err := json.Marshal(map[string]string{"destination": address})
	if err != nil {
		return fmt.Errorf("encode faucet request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.faucetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build faucet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("faucet: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("faucet returned HTTP %d", resp.StatusCode)
	}
	return nil
}
