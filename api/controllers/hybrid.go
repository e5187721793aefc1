package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type hybridRequest struct {
	Merchant           string `json:"merchant"`
	FiatValueBRL       any    `json:"fiat_value_brl"`
	RateBRLPerRLUSD    any    `json:"rate_brl_per_rlusd"`
	FinishAfterSeconds int64  `json:"finish_after_seconds"`
}

// SimulateHybrid demonstrates the PIX-to-token flow: fiat in, token escrow
// out to the merchant.
func SimulateHybrid(svc *settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req hybridRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := svc.HybridSimulate(ctx, settlement.HybridParams{
			Merchant:           req.Merchant,
			FiatValueBRL:       decimalFrom(req.FiatValueBRL),
			Rate:               decimalFrom(req.RateBRLPerRLUSD),
			FinishAfterSeconds: req.FinishAfterSeconds,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		fiat, _ := res.FiatValueBRL.Float64()
		payload := map[string]any{
			"status":         "submitted",
			"flow":           "hybrid",
			"mode":           res.Mode,
			"currency":       res.Currency,
			"fiat_value_brl": fiat,
			"amount_rlusd":   res.AmountRLUSD.StringFixed(2),
			"txHash":         res.TxHash,
			"result":         res.Result,
		}
		if res.Mode == settlement.ModeTokenEscrow {
			payload["sequence"] = res.Sequence
		}
		responses.WriteSuccess(w, payload)
	}
}
