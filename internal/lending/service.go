package lending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payhub-br/payhub-backend/internal/settlement"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

const (
	tokenIDPrefix = "RCV-"

	defaultInstallments       = 12
	defaultFinishAfterSeconds = 60
	borrowCancelWindowSeconds = 600
)

var (
	defaultRate    = decimal.NewFromInt(1)
	defaultHaircut = decimal.NewFromInt(4)
)

// Service runs the tokenize/borrow lifecycle on top of the settlement engine.
type Service struct {
	store      *Store
	settlement *settlement.Service
	logg       *logger.Logger
}

func NewService(store *Store, settle *settlement.Service, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if settle == nil {
		return nil, errors.New("settlement service is required")
	}
	return &Service{store: store, settlement: settle, logg: logg}, nil
}

// TokenizeParams describe the receivable being tokenized.
type TokenizeParams struct {
	SaleID         string
	AmountTotalBRL decimal.Decimal
	Installments   int
	Merchant       string
}

// Tokenize mints a receivable token for the sale. The token id is derived
// from the sale id, so tokenizing the same sale again replaces the record.
func (s *Service) Tokenize(ctx context.Context, params TokenizeParams) (*Token, error) {
	if params.SaleID == "" || !params.AmountTotalBRL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_id and amount_total_brl are required")
	}
	if params.Installments <= 0 {
		params.Installments = defaultInstallments
	}

	amount, _ := params.AmountTotalBRL.Float64()
	token := Token{
		TokenID:        tokenIDPrefix + params.SaleID,
		SaleID:         params.SaleID,
		AmountTotalBRL: amount,
		Installments:   params.Installments,
		Merchant:       params.Merchant,
		CreatedAt:      time.Now().UnixMilli(),
		Status:         StatusTokenized,
	}
	s.store.Put(token)

	if s.logg != nil {
		s.logg.Info(s.logg.WithTokenID(ctx, token.TokenID), "lending.tokenize: receivable tokenized")
	}
	return &token, nil
}

// BorrowParams configure a loan disbursement against a receivable token.
type BorrowParams struct {
	TokenID            string
	Merchant           string
	RateBRLPerRLUSD    decimal.Decimal
	HaircutPercent     decimal.Decimal
	FinishAfterSeconds int64
}

// BorrowResult reports the disbursed loan and the updated token record.
type BorrowResult struct {
	Token          Token
	Mode           settlement.Mode
	LoanRLUSD      float64
	HaircutPercent float64
	TxHash         string
	Sequence       uint32
	Result         json.RawMessage
}

// Borrow disburses a haircut-adjusted loan to the token's merchant via the
// settlement engine and marks the token collateralized. Concurrent borrows on
// the same token are serialized; each one recomputes the loan from the stored
// receivable amount.
func (s *Service) Borrow(ctx context.Context, params BorrowParams) (*BorrowResult, error) {
	if params.TokenID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token_id is required")
	}
	if !params.RateBRLPerRLUSD.IsPositive() {
		params.RateBRLPerRLUSD = defaultRate
	}
	if !params.HaircutPercent.IsPositive() {
		params.HaircutPercent = defaultHaircut
	}
	if params.FinishAfterSeconds <= 0 {
		params.FinishAfterSeconds = defaultFinishAfterSeconds
	}

	unlock := s.store.LockToken(params.TokenID)
	defer unlock()

	token, ok := s.store.Get(params.TokenID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("token %s not found", params.TokenID))
	}

	merchant := params.Merchant
	if merchant == "" {
		merchant = token.Merchant
	}
	if merchant == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant is required on the token or the request")
	}

	gross := decimal.NewFromFloat(token.AmountTotalBRL).Div(params.RateBRLPerRLUSD)
	loan := gross.Mul(decimal.NewFromInt(1).Sub(params.HaircutPercent.Div(decimal.NewFromInt(100)))).Round(2)

	settled, err := s.settlement.TokenEscrowCreate(ctx, settlement.TokenEscrowParams{
		Destination:        merchant,
		Value:              loan,
		FinishAfterSeconds: params.FinishAfterSeconds,
		CancelAfterSeconds: params.FinishAfterSeconds + borrowCancelWindowSeconds,
	})
	if err != nil {
		return nil, err
	}

	loanValue, _ := loan.Float64()
	token.Status = StatusCollateralized
	token.LoanRLUSD = &loanValue
	if settled.Mode == settlement.ModeTokenEscrow {
		sequence := settled.Sequence
		token.EscrowSequence = &sequence
	} else {
		token.PaymentTxHash = settled.TxHash
	}
	s.store.Put(token)

	if s.logg != nil {
		s.logg.Info(s.logg.WithTokenID(ctx, token.TokenID), "lending.borrow: loan disbursed")
	}

	haircut, _ := params.HaircutPercent.Float64()
	return &BorrowResult{
		Token:          token,
		Mode:           settled.Mode,
		LoanRLUSD:      loanValue,
		HaircutPercent: haircut,
		TxHash:         settled.TxHash,
		Sequence:       settled.Sequence,
		Result:         settled.Result,
	}, nil
}
