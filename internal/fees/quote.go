// Package fees prices gateway transactions. Quoting is a pure computation
// over fixed pricing tables; nothing here touches the ledger.
package fees

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/metrics"
)

const (
	TypePix             = "pix"
	TypeDebitCreditAuth = "debit_credit_vista"
	TypeCreditInstall   = "credit_parcelado"
)

const (
	defaultInstallments   = 12
	defaultRiskSegment    = "mid"
	defaultDefiAPY        = 0.08
	defaultHaircutPercent = 4
)

// defiInterestBySegment maps a merchant risk segment to the DeFi funding rate
// baked into installment pricing. Unknown segments price as mid.
var defiInterestBySegment = map[string]float64{
	"low":  1.0,
	"mid":  2.5,
	"high": 3.5,
}

// Params are the quoting inputs. Zero values take the documented defaults.
type Params struct {
	Type           string
	AmountBRL      decimal.Decimal
	Installments   int
	RiskSegment    string
	DefiAPY        float64
	HaircutPercent decimal.Decimal
}

// Range is a suggested fee percentage band.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Totals carries the monetary outcome of a quote. LoanRLUSDValue is only set
// for installment quotes, where receivables can back a token loan.
type Totals struct {
	FeePercent     float64  `json:"fee_percent"`
	FeeAmountBRL   float64  `json:"fee_amount_brl"`
	MerchantNetBRL float64  `json:"merchant_net_brl"`
	LoanRLUSDValue *float64 `json:"loan_rlusd_value,omitempty"`
}

// YieldAssumptions records the APY the quote assumed for idle balances.
type YieldAssumptions struct {
	DefiAPY float64 `json:"defi_apy"`
}

// Quote is a priced payment type. The breakdown keys depend on the type.
type Quote struct {
	Type                  string             `json:"type"`
	Installments          int                `json:"installments,omitempty"`
	RiskSegment           string             `json:"risk_segment,omitempty"`
	SuggestedPercentRange Range              `json:"suggested_percent_range"`
	Breakdown             map[string]float64 `json:"breakdown"`
	Totals                Totals             `json:"totals"`
	YieldAssumptions      *YieldAssumptions  `json:"yield_assumptions,omitempty"`
	Message               string             `json:"message,omitempty"`
}

// Service computes fee quotes and counts them.
type Service struct {
	metrics *metrics.GatewayMetrics
}

func NewService(m *metrics.GatewayMetrics) *Service {
	return &Service{metrics: m}
}

// Quote prices a transaction of the given type and amount. Identical inputs
// always produce identical quotes.
func (s *Service) Quote(params Params) (*Quote, error) {
	if params.Type == "" || !params.AmountBRL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type and amount_brl>0 are required")
	}
	applyDefaults(&params)

	var quote *Quote
	switch params.Type {
	case TypePix:
		quote = pixQuote(params.AmountBRL)
	case TypeDebitCreditAuth:
		quote = debitCreditQuote(params.AmountBRL)
	case TypeCreditInstall:
		quote = installmentQuote(params)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"type must be one of pix, debit_credit_vista, credit_parcelado")
	}

	s.metrics.IncQuote(params.Type)
	return quote, nil
}

func applyDefaults(params *Params) {
	if params.Installments <= 0 {
		params.Installments = defaultInstallments
	}
	if params.RiskSegment == "" {
		params.RiskSegment = defaultRiskSegment
	}
	if params.DefiAPY <= 0 {
		params.DefiAPY = defaultDefiAPY
	}
	if !params.HaircutPercent.IsPositive() {
		params.HaircutPercent = decimal.NewFromInt(defaultHaircutPercent)
	}
}

// pixQuote prices flat at the bottom of the band; PIX competes on
// micropayment volume.
func pixQuote(amount decimal.Decimal) *Quote {
	const (
		acquisitionCost = 0.3
		suggestedMin    = 0.5
		suggestedMax    = 0.9
	)
	suggested := suggestedMin
	return &Quote{
		Type:                  TypePix,
		SuggestedPercentRange: Range{Min: suggestedMin, Max: suggestedMax},
		Breakdown: map[string]float64{
			"cost_acquisition_pct": acquisitionCost,
			"service_escrow_pct":   round2(suggested - acquisitionCost),
		},
		Totals: amountTotals(amount, suggested),
	}
}

func debitCreditQuote(amount decimal.Decimal) *Quote {
	const (
		gatewayCostMin = 1.0
		gatewayCostMax = 1.5
		suggestedMin   = 1.8
		suggestedMax   = 2.5
		suggested      = 2.0
	)
	gatewayCost := round2((gatewayCostMin + gatewayCostMax) / 2)
	return &Quote{
		Type:                  TypeDebitCreditAuth,
		SuggestedPercentRange: Range{Min: suggestedMin, Max: suggestedMax},
		Breakdown: map[string]float64{
			"cost_gateway_pct":     gatewayCost,
			"arbitrage_margin_pct": round2(suggested - gatewayCost),
		},
		Totals: amountTotals(amount, suggested),
	}
}

func installmentQuote(params Params) *Quote {
	const (
		serviceFee   = 1.8
		suggestedMin = 2.5
		suggestedMax = 5.0
	)
	defiInterest, ok := defiInterestBySegment[params.RiskSegment]
	if !ok {
		defiInterest = defiInterestBySegment[defaultRiskSegment]
	}
	totalFee := round2(defiInterest + serviceFee)

	totals := amountTotals(params.AmountBRL, totalFee)
	// The loan value uses the haircut alone; it is not net of the fee.
	loan := roundDec2(params.AmountBRL.Mul(oneMinusPercent(params.HaircutPercent)))
	totals.LoanRLUSDValue = &loan

	haircut, _ := params.HaircutPercent.Float64()
	return &Quote{
		Type:                  TypeCreditInstall,
		Installments:          params.Installments,
		RiskSegment:           params.RiskSegment,
		SuggestedPercentRange: Range{Min: suggestedMin, Max: suggestedMax},
		Breakdown: map[string]float64{
			"defi_interest_pct":  defiInterest,
			"service_payhub_pct": serviceFee,
			"haircut_percent":    haircut,
		},
		Totals:           totals,
		YieldAssumptions: &YieldAssumptions{DefiAPY: params.DefiAPY},
		Message:          "With DeFi collateral the merchant gets immediate liquidity instead of the traditional receivables discount.",
	}
}

func amountTotals(amount decimal.Decimal, feePercent float64) Totals {
	pct := decimal.NewFromFloat(feePercent)
	return Totals{
		FeePercent:     feePercent,
		FeeAmountBRL:   roundDec2(amount.Mul(pct).Div(decimal.NewFromInt(100))),
		MerchantNetBRL: roundDec2(amount.Mul(oneMinusPercent(pct))),
	}
}

func oneMinusPercent(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
}

func round2(n float64) float64 {
	return roundDec2(decimal.NewFromFloat(n))
}

func roundDec2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
