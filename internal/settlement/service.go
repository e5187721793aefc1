package settlement

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/payhub-br/payhub-backend/internal/ledger"
	"github.com/payhub-br/payhub-backend/pkg/config"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
	"github.com/payhub-br/payhub-backend/pkg/metrics"
)

// Mode tells callers which guarantee a token settlement actually got: a real
// time-locked escrow, or a plain payment when the node lacks TokenEscrow.
type Mode string

const (
	ModeTokenEscrow     Mode = "token_escrow"
	ModePaymentFallback Mode = "payment_fallback"
)

const (
	defaultFinishAfterSeconds int64 = 60
	defaultCancelAfterSeconds int64 = 600
	hybridCancelWindowSeconds int64 = 600
)

const defaultIOUCurrency = "RLUSD"

// ServiceParams groups dependencies for the settlement engine.
type ServiceParams struct {
	Client   ledger.Client
	Operator *ledger.OperatorSource
	XRPL     config.XRPLConfig
	Metrics  *metrics.GatewayMetrics
	Logger   *logger.Logger
}

// Service builds, signs and submits settlement transactions. It holds no
// per-request state; the operator identity is resolved on every call.
type Service struct {
	client   ledger.Client
	operator *ledger.OperatorSource
	cfg      config.XRPLConfig
	metrics  *metrics.GatewayMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, errors.New("ledger client is required")
	}
	if params.Operator == nil {
		return nil, errors.New("operator source is required")
	}
	return &Service{
		client:   params.Client,
		operator: params.Operator,
		cfg:      params.XRPL,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// EscrowCreateResult reports a submitted native-asset escrow. The (owner,
// sequence) pair is the ledger's identifier for finishing it later.
type EscrowCreateResult struct {
	TxHash   string
	Sequence uint32
	Owner    string
	Result   json.RawMessage
}

// FinishResult reports a submitted escrow-finish.
type FinishResult struct {
	TxHash string
	Result json.RawMessage
}

// TokenResult reports a token-denominated settlement. Sequence is only set on
// the escrow path; fallback payments have no escrow to finish.
type TokenResult struct {
	Mode     Mode
	Currency string
	TxHash   string
	Sequence uint32
	Result   json.RawMessage
}

// HybridResult augments a token settlement with the fiat leg it simulates.
type HybridResult struct {
	TokenResult
	FiatValueBRL decimal.Decimal
	AmountRLUSD  decimal.Decimal
}

// TokenEscrowParams configures a token escrow creation attempt.
type TokenEscrowParams struct {
	Destination        string
	Value              decimal.Decimal
	FinishAfterSeconds int64
	CancelAfterSeconds int64
}

// HybridParams configures a simulated PIX-to-token settlement.
type HybridParams struct {
	Merchant           string
	FiatValueBRL       decimal.Decimal
	Rate               decimal.Decimal
	FinishAfterSeconds int64
}

// XRPEscrowCreate locks native XRP for the destination until FinishAfter.
func (s *Service) XRPEscrowCreate(ctx context.Context, destination string, amountXRP decimal.Decimal, finishAfterSeconds int64) (*EscrowCreateResult, error) {
	if destination == "" || !amountXRP.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination and amount_xrp are required")
	}
	if finishAfterSeconds <= 0 {
		finishAfterSeconds = defaultFinishAfterSeconds
	}

	wallet, err := s.operator.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	tx := ledger.Transaction{
		TransactionType: "EscrowCreate",
		Account:         wallet.Address,
		Destination:     destination,
		Amount:          ledger.XRPToDrops(amountXRP),
		FinishAfter:     ledger.RippleNow() + finishAfterSeconds,
	}

	submitted, err := s.submit(ctx, "xrp_escrow_create", "escrow", wallet.Seed, tx)
	if err != nil {
		return nil, err
	}

	s.logSubmission(ctx, "settlement.xrp_escrow_create", submitted.Hash)
	return &EscrowCreateResult{
		TxHash:   submitted.Hash,
		Sequence: submitted.Sequence,
		Owner:    wallet.Address,
		Result:   submitted.Raw,
	}, nil
}

// EscrowFinish releases a pending escrow identified by (owner, sequence).
// The operator signs; owner defaults to the operator's own address.
func (s *Service) EscrowFinish(ctx context.Context, offerSequence uint32, owner string) (*FinishResult, error) {
	wallet, err := s.operator.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		owner = wallet.Address
	}

	tx := ledger.Transaction{
		TransactionType: "EscrowFinish",
		Account:         wallet.Address,
		Owner:           owner,
		OfferSequence:   offerSequence,
	}

	submitted, err := s.submit(ctx, "escrow_finish", "escrow", wallet.Seed, tx)
	if err != nil {
		return nil, err
	}

	s.logSubmission(ctx, "settlement.escrow_finish", submitted.Hash)
	return &FinishResult{TxHash: submitted.Hash, Result: submitted.Raw}, nil
}

// TokenEscrowCreate settles a token amount to the destination. When the node
// supports TokenEscrow the funds are time-locked between FinishAfter and
// CancelAfter; otherwise a direct payment moves the same amount with no
// timing guarantee. Callers must branch on the returned Mode.
func (s *Service) TokenEscrowCreate(ctx context.Context, params TokenEscrowParams) (*TokenResult, error) {
	if params.Destination == "" || !params.Value.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination and amount_value are required")
	}
	if params.FinishAfterSeconds <= 0 {
		params.FinishAfterSeconds = defaultFinishAfterSeconds
	}
	if params.CancelAfterSeconds <= 0 {
		params.CancelAfterSeconds = defaultCancelAfterSeconds
	}

	wallet, err := s.operator.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := s.wireCurrency()
	if err != nil {
		return nil, err
	}

	amount := ledger.IssuedAmount{
		Currency: currency,
		Issuer:   wallet.Address,
		Value:    params.Value.String(),
	}

	if ledger.SupportsTokenEscrow(ctx, s.client) {
		rippleNow := ledger.RippleNow()
		tx := ledger.Transaction{
			TransactionType: "EscrowCreate",
			Account:         wallet.Address,
			Destination:     params.Destination,
			Amount:          amount,
			FinishAfter:     rippleNow + params.FinishAfterSeconds,
			CancelAfter:     rippleNow + params.CancelAfterSeconds,
		}
		submitted, err := s.submit(ctx, "token_escrow_create", string(ModeTokenEscrow), wallet.Seed, tx)
		if err != nil {
			return nil, err
		}
		s.logSubmission(ctx, "settlement.token_escrow_create", submitted.Hash)
		return &TokenResult{
			Mode:     ModeTokenEscrow,
			Currency: currency,
			TxHash:   submitted.Hash,
			Sequence: submitted.Sequence,
			Result:   submitted.Raw,
		}, nil
	}

	tx := ledger.Transaction{
		TransactionType: "Payment",
		Account:         wallet.Address,
		Destination:     params.Destination,
		Amount:          amount,
	}
	submitted, err := s.submit(ctx, "token_escrow_create", string(ModePaymentFallback), wallet.Seed, tx)
	if err != nil {
		return nil, err
	}
	s.logSubmission(ctx, "settlement.token_payment_fallback", submitted.Hash)
	return &TokenResult{
		Mode:     ModePaymentFallback,
		Currency: currency,
		TxHash:   submitted.Hash,
		Result:   submitted.Raw,
	}, nil
}

// HybridSimulate converts a fiat amount to token units at the given rate and
// settles it like TokenEscrowCreate, with the cancel window starting where
// the finish window ends.
func (s *Service) HybridSimulate(ctx context.Context, params HybridParams) (*HybridResult, error) {
	if params.Merchant == "" || !params.FiatValueBRL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant and fiat_value_brl are required")
	}
	if !params.Rate.IsPositive() {
		params.Rate = decimal.NewFromInt(1)
	}
	if params.FinishAfterSeconds <= 0 {
		params.FinishAfterSeconds = defaultFinishAfterSeconds
	}

	amount := params.FiatValueBRL.Div(params.Rate).Round(2)

	token, err := s.TokenEscrowCreate(ctx, TokenEscrowParams{
		Destination:        params.Merchant,
		Value:              amount,
		FinishAfterSeconds: params.FinishAfterSeconds,
		CancelAfterSeconds: params.FinishAfterSeconds + hybridCancelWindowSeconds,
	})
	if err != nil {
		return nil, err
	}

	return &HybridResult{
		TokenResult:  *token,
		FiatValueBRL: params.FiatValueBRL,
		AmountRLUSD:  amount,
	}, nil
}

func (s *Service) submit(ctx context.Context, kind, mode, seed string, tx ledger.Transaction) (*ledger.SubmitResult, error) {
	submitted, err := s.client.SubmitAndWait(ctx, seed, tx)
	if err != nil {
		s.metrics.IncFailure(kind)
		// The node's message travels verbatim to the caller.
		return nil, pkgerrors.Wrap(pkgerrors.CodeSettlement, err, err.Error())
	}
	s.metrics.IncSubmission(kind, mode)
	return submitted, nil
}

func (s *Service) wireCurrency() (string, error) {
	code := s.cfg.IOUCurrency
	if code == "" {
		code = defaultIOUCurrency
	}
	return ledger.EncodeCurrency(code)
}

func (s *Service) logSubmission(ctx context.Context, event, txHash string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithTxHash(ctx, txHash), event)
}
