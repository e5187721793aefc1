package settlement

import (
	"context"
	"encoding/json"

	"github.com/payhub-br/payhub-backend/internal/ledger"
)

const (
	defaultTrustLimit = "1000000"
	defaultIssueValue = "1000"
)

// SetupParams configures the testnet bootstrap. Zero values take defaults.
type SetupParams struct {
	Limit      string
	IssueValue string
}

// SetupAccount is one provisioned testnet wallet. The seed is returned so the
// caller can reuse the account across restarts; this endpoint only exists on
// test networks.
type SetupAccount struct {
	Address string
	Seed    string
}

// SetupResult reports the provisioned accounts, trustlines and the initial
// issuance.
type SetupResult struct {
	Currency       string
	Issuer         SetupAccount
	Payhub         SetupAccount
	Merchant       SetupAccount
	PayhubTrust    json.RawMessage
	MerchantTrust  json.RawMessage
	IssuanceTxHash string
	IssuanceResult json.RawMessage
}

// TestnetSetup provisions an issuer, an operator and a merchant wallet on the
// test network, funds them from the faucet, opens trustlines to the issuer
// and issues an initial token balance to the operator. The operator wallet
// becomes the runtime override for subsequent settlements.
func (s *Service) TestnetSetup(ctx context.Context, params SetupParams) (*SetupResult, error) {
	if params.Limit == "" {
		params.Limit = defaultTrustLimit
	}
	if params.IssueValue == "" {
		params.IssueValue = defaultIssueValue
	}

	currency, err := s.wireCurrency()
	if err != nil {
		return nil, err
	}

	issuer, err := s.proposeWallet(ctx, s.cfg.IssuerSeed)
	if err != nil {
		return nil, err
	}
	payhub, err := s.proposeWallet(ctx, s.cfg.SetupSeed())
	if err != nil {
		return nil, err
	}
	merchant, err := s.proposeWallet(ctx, s.cfg.MerchantSeed)
	if err != nil {
		return nil, err
	}

	// Faucet funding is best effort. Accounts that already exist on the
	// test network make the faucet complain, which is fine.
	for _, w := range []*ledger.Wallet{issuer, payhub, merchant} {
		if fundErr := s.client.FundWallet(ctx, w.Address); fundErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "settlement.setup: faucet funding failed for "+w.Address+": "+fundErr.Error())
		}
	}

	s.operator.SetOverride(*payhub)

	payhubTrust, err := s.submit(ctx, "setup_trust_set", "setup", payhub.Seed, ledger.Transaction{
		TransactionType: "TrustSet",
		Account:         payhub.Address,
		LimitAmount: &ledger.IssuedAmount{
			Currency: currency,
			Issuer:   issuer.Address,
			Value:    params.Limit,
		},
	})
	if err != nil {
		return nil, err
	}

	merchantTrust, err := s.submit(ctx, "setup_trust_set", "setup", merchant.Seed, ledger.Transaction{
		TransactionType: "TrustSet",
		Account:         merchant.Address,
		LimitAmount: &ledger.IssuedAmount{
			Currency: currency,
			Issuer:   issuer.Address,
			Value:    params.Limit,
		},
	})
	if err != nil {
		return nil, err
	}

	issuance, err := s.submit(ctx, "setup_issuance", "setup", issuer.Seed, ledger.Transaction{
		TransactionType: "Payment",
		Account:         issuer.Address,
		Destination:     payhub.Address,
		Amount: ledger.IssuedAmount{
			Currency: currency,
			Issuer:   issuer.Address,
			Value:    params.IssueValue,
		},
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, "settlement.setup: testnet accounts provisioned")
	}

	return &SetupResult{
		Currency:       currency,
		Issuer:         SetupAccount{Address: issuer.Address, Seed: issuer.Seed},
		Payhub:         SetupAccount{Address: payhub.Address, Seed: payhub.Seed},
		Merchant:       SetupAccount{Address: merchant.Address, Seed: merchant.Seed},
		PayhubTrust:    payhubTrust.Raw,
		MerchantTrust:  merchantTrust.Raw,
		IssuanceTxHash: issuance.Hash,
		IssuanceResult: issuance.Raw,
	}, nil
}

func (s *Service) proposeWallet(ctx context.Context, seed string) (*ledger.Wallet, error) {
	wallet, err := s.client.WalletPropose(ctx, seed)
	if err != nil {
		return nil, err
	}
	return wallet, nil
}
