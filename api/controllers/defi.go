package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/lending"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type tokenizeRequest struct {
	SaleID         any    `json:"sale_id"`
	AmountTotalBRL any    `json:"amount_total_brl"`
	Installments   int    `json:"installments"`
	Merchant       string `json:"merchant"`
}

type tokenizeResponse struct {
	Status string `json:"status"`
	lending.Token
}

// TokenizeReceivable mints a receivable token for a sale.
func TokenizeReceivable(svc *lending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req tokenizeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token, err := svc.Tokenize(ctx, lending.TokenizeParams{
			SaleID:         stringify(req.SaleID),
			AmountTotalBRL: decimalFrom(req.AmountTotalBRL),
			Installments:   req.Installments,
			Merchant:       req.Merchant,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, tokenizeResponse{Status: "tokenized", Token: *token})
	}
}

type borrowRequest struct {
	TokenID            any    `json:"token_id"`
	Merchant           string `json:"merchant"`
	RateBRLPerRLUSD    any    `json:"rate_brl_per_rlusd"`
	HaircutPercent     any    `json:"haircut_percent"`
	FinishAfterSeconds int64  `json:"finish_after_seconds"`
}

// Borrow disburses a loan against a receivable token.
func Borrow(svc *lending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req borrowRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := svc.Borrow(ctx, lending.BorrowParams{
			TokenID:            stringify(req.TokenID),
			Merchant:           req.Merchant,
			RateBRLPerRLUSD:    decimalFrom(req.RateBRLPerRLUSD),
			HaircutPercent:     decimalFrom(req.HaircutPercent),
			FinishAfterSeconds: req.FinishAfterSeconds,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := map[string]any{
			"status":          "borrowed",
			"flow":            "defi",
			"mode":            res.Mode,
			"token_id":        res.Token.TokenID,
			"loan_rlusd":      res.LoanRLUSD,
			"haircut_percent": res.HaircutPercent,
			"txHash":          res.TxHash,
			"result":          res.Result,
		}
		if res.Mode == settlement.ModeTokenEscrow {
			payload["sequence"] = res.Sequence
		}
		responses.WriteSuccess(w, payload)
	}
}
