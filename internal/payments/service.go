// Package payments routes inbound payment requests. The crypto branch settles
// on the ledger; PIX and card are intake simulations that never leave the
// process.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/payhub-br/payhub-backend/internal/settlement"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

const (
	TypeCrypto = "crypto"
	TypePix    = "pix"
	TypeCard   = "card"
)

const (
	cryptoEscrowSeconds = 60
	pixExpiryWindow     = 30 * time.Minute
)

// Service dispatches payment intake by type.
type Service struct {
	settlement *settlement.Service
	logg       *logger.Logger

	// now is swapped in tests to pin expiry checks.
	now func() time.Time
}

func NewService(settle *settlement.Service, logg *logger.Logger) (*Service, error) {
	if settle == nil {
		return nil, errors.New("settlement service is required")
	}
	return &Service{settlement: settle, logg: logg, now: time.Now}, nil
}

// ProcessCrypto locks the amount in a short-lived XRP escrow to the
// destination.
func (s *Service) ProcessCrypto(ctx context.Context, destination string, amount decimal.Decimal) (*settlement.EscrowCreateResult, error) {
	return s.settlement.XRPEscrowCreate(ctx, destination, amount, cryptoEscrowSeconds)
}

// PixResult is a simulated PIX charge awaiting customer action.
type PixResult struct {
	PixKey         string
	ExpirationTime time.Time
}

// ProcessPix issues a single-use PIX key valid for thirty minutes. No charge
// is registered anywhere; the demo has no PIX acquirer behind it.
func (s *Service) ProcessPix(ctx context.Context) *PixResult {
	key := "pix-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if s.logg != nil {
		s.logg.Info(ctx, "payments.pix: charge initiated")
	}
	return &PixResult{
		PixKey:         key,
		ExpirationTime: s.now().Add(pixExpiryWindow),
	}
}

// CardParams are the card details required for a card payment.
type CardParams struct {
	Number         string
	ExpiryDate     string
	CVV            string
	CardholderName string
	Amount         decimal.Decimal
}

// CardResult is a simulated approved card payment.
type CardResult struct {
	TransactionID string
	Amount        decimal.Decimal
	Timestamp     time.Time
}

// ProcessCard validates the card details and approves the payment. There is
// no acquirer; any card passing Luhn and expiry checks is approved.
func (s *Service) ProcessCard(ctx context.Context, params CardParams) (*CardResult, error) {
	if params.Number == "" || params.ExpiryDate == "" || params.CVV == "" || params.CardholderName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card details are required for card payments")
	}
	if !validCardNumber(params.Number) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid card number")
	}
	if !validExpiryDate(params.ExpiryDate, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid expiry date")
	}

	now := s.now()
	txID := fmt.Sprintf("tx-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
	if s.logg != nil {
		s.logg.Info(ctx, "payments.card: payment approved")
	}
	return &CardResult{
		TransactionID: txID,
		Amount:        params.Amount,
		Timestamp:     now,
	}, nil
}
