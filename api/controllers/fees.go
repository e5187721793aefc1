package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/fees"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type feeQuoteRequest struct {
	Type           string   `json:"type"`
	AmountBRL      any      `json:"amount_brl"`
	Installments   int      `json:"installments"`
	RiskSegment    string   `json:"risk_segment"`
	DefiAPY        *float64 `json:"defi_apy"`
	HaircutPercent any      `json:"haircut_percent"`
}

// QuoteFees prices a transaction without touching the ledger.
func QuoteFees(svc *fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req feeQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := fees.Params{
			Type:           req.Type,
			AmountBRL:      decimalFrom(req.AmountBRL),
			Installments:   req.Installments,
			RiskSegment:    req.RiskSegment,
			HaircutPercent: decimalFrom(req.HaircutPercent),
		}
		if req.DefiAPY != nil {
			params.DefiAPY = *req.DefiAPY
		}

		quote, err := svc.Quote(params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		amount, _ := params.AmountBRL.Float64()
		responses.WriteSuccess(w, map[string]any{
			"status":     "ok",
			"amount_brl": amount,
			"quote":      quote,
		})
	}
}
