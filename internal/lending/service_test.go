package lending

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payhub-br/payhub-backend/internal/ledger"
	"github.com/payhub-br/payhub-backend/internal/ledger/ledgertest"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/config"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
)

func newLendingService(t *testing.T, client *ledgertest.FakeClient) *Service {
	t.Helper()
	cfg := config.XRPLConfig{OperatorSeed: "sOperator", IOUCurrency: "RLUSD"}
	settle, err := settlement.NewService(settlement.ServiceParams{
		Client:   client,
		Operator: ledger.NewOperatorSource(cfg, client),
		XRPL:     cfg,
	})
	require.NoError(t, err)
	svc, err := NewService(NewStore(), settle, nil)
	require.NoError(t, err)
	return svc
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestTokenizeDerivesTokenIDFromSale(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	token, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "42",
		AmountTotalBRL: dec(t, "1200"),
	})
	require.NoError(t, err)

	assert.Equal(t, "RCV-42", token.TokenID)
	assert.Equal(t, "42", token.SaleID)
	assert.Equal(t, 1200.0, token.AmountTotalBRL)
	assert.Equal(t, 12, token.Installments)
	assert.Equal(t, StatusTokenized, token.Status)
	assert.Positive(t, token.CreatedAt)
	assert.Nil(t, token.LoanRLUSD)
}

func TestTokenizeSameSaleOverwrites(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	_, err := svc.Tokenize(context.Background(), TokenizeParams{SaleID: "42", AmountTotalBRL: dec(t, "100")})
	require.NoError(t, err)
	_, err = svc.Tokenize(context.Background(), TokenizeParams{SaleID: "42", AmountTotalBRL: dec(t, "999")})
	require.NoError(t, err)

	token, ok := svc.store.Get("RCV-42")
	require.True(t, ok)
	assert.Equal(t, 999.0, token.AmountTotalBRL)
	assert.Equal(t, 1, svc.store.Len())
}

func TestTokenizeRejectsMissingFields(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	_, err := svc.Tokenize(context.Background(), TokenizeParams{AmountTotalBRL: dec(t, "100")})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Tokenize(context.Background(), TokenizeParams{SaleID: "42"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestBorrowLifecycle(t *testing.T) {
	client := ledgertest.NewFakeClient()
	svc := newLendingService(t, client)

	_, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "42",
		AmountTotalBRL: dec(t, "1200"),
		Merchant:       "rMerchant",
	})
	require.NoError(t, err)

	res, err := svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-42"})
	require.NoError(t, err)

	// 1200 / 1 with a 4% haircut.
	assert.Equal(t, 1152.00, res.LoanRLUSD)
	assert.Equal(t, 4.0, res.HaircutPercent)
	assert.Equal(t, settlement.ModeTokenEscrow, res.Mode)
	assert.NotZero(t, res.Sequence)

	stored, ok := svc.store.Get("RCV-42")
	require.True(t, ok)
	assert.Equal(t, StatusCollateralized, stored.Status)
	require.NotNil(t, stored.LoanRLUSD)
	assert.Equal(t, 1152.00, *stored.LoanRLUSD)
	require.NotNil(t, stored.EscrowSequence)
	assert.Empty(t, stored.PaymentTxHash)

	amount, ok := client.LastSubmitted().Amount.(ledger.IssuedAmount)
	require.True(t, ok)
	assert.Equal(t, "1152", amount.Value)
}

func TestBorrowFallbackRecordsPaymentHash(t *testing.T) {
	client := ledgertest.NewFakeClient()
	client.TokenEscrowEnabled = false
	svc := newLendingService(t, client)

	_, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "7",
		AmountTotalBRL: dec(t, "500"),
		Merchant:       "rMerchant",
	})
	require.NoError(t, err)

	res, err := svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-7"})
	require.NoError(t, err)
	assert.Equal(t, settlement.ModePaymentFallback, res.Mode)

	stored, _ := svc.store.Get("RCV-7")
	assert.Nil(t, stored.EscrowSequence)
	assert.Equal(t, res.TxHash, stored.PaymentTxHash)
}

func TestBorrowUnknownTokenDoesNotCreateRecord(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	_, err := svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-missing"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Zero(t, svc.store.Len())
}

func TestBorrowRequiresMerchantSomewhere(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	_, err := svc.Tokenize(context.Background(), TokenizeParams{SaleID: "9", AmountTotalBRL: dec(t, "100")})
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-9"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// The request-level merchant fills the gap.
	res, err := svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-9", Merchant: "rOverride"})
	require.NoError(t, err)
	assert.Equal(t, settlement.ModeTokenEscrow, res.Mode)
}

func TestBorrowHonorsRateAndHaircut(t *testing.T) {
	svc := newLendingService(t, ledgertest.NewFakeClient())

	_, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "10",
		AmountTotalBRL: dec(t, "1000"),
		Merchant:       "rMerchant",
	})
	require.NoError(t, err)

	res, err := svc.Borrow(context.Background(), BorrowParams{
		TokenID:         "RCV-10",
		RateBRLPerRLUSD: dec(t, "5"),
		HaircutPercent:  dec(t, "10"),
	})
	require.NoError(t, err)
	// 1000 / 5 = 200 gross, minus 10% haircut.
	assert.Equal(t, 180.00, res.LoanRLUSD)
}

func TestBorrowSettlementFailureLeavesTokenUntouched(t *testing.T) {
	client := ledgertest.NewFakeClient()
	svc := newLendingService(t, client)

	_, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "11",
		AmountTotalBRL: dec(t, "100"),
		Merchant:       "rMerchant",
	})
	require.NoError(t, err)

	client.SubmitErr = assert.AnError
	_, err = svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-11"})
	require.Error(t, err)

	stored, _ := svc.store.Get("RCV-11")
	assert.Equal(t, StatusTokenized, stored.Status)
	assert.Nil(t, stored.LoanRLUSD)
}

func TestConcurrentBorrowsOnSameTokenSerialize(t *testing.T) {
	client := ledgertest.NewFakeClient()
	svc := newLendingService(t, client)

	_, err := svc.Tokenize(context.Background(), TokenizeParams{
		SaleID:         "12",
		AmountTotalBRL: dec(t, "100"),
		Merchant:       "rMerchant",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Borrow(context.Background(), BorrowParams{TokenID: "RCV-12"})
		}()
	}
	wg.Wait()

	stored, _ := svc.store.Get("RCV-12")
	assert.Equal(t, StatusCollateralized, stored.Status)
	require.NotNil(t, stored.LoanRLUSD)
	assert.Equal(t, 96.00, *stored.LoanRLUSD)
}
