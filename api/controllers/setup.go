package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type setupRequest struct {
	Limit      any `json:"limit"`
	IssueValue any `json:"issue_value"`
}

// SetupTestnet provisions issuer, operator and merchant accounts with
// trustlines and an initial issuance. Test networks only; the generated
// operator becomes the runtime signing wallet.
func SetupTestnet(svc *settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req setupRequest
		if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := svc.TestnetSetup(ctx, settlement.SetupParams{
			Limit:      stringify(req.Limit),
			IssueValue: stringify(req.IssueValue),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status":   "ok",
			"currency": res.Currency,
			"accounts": map[string]any{
				"issuer":   map[string]string{"address": res.Issuer.Address, "seed": res.Issuer.Seed},
				"payhub":   map[string]string{"address": res.Payhub.Address, "seed": res.Payhub.Seed},
				"merchant": map[string]string{"address": res.Merchant.Address, "seed": res.Merchant.Seed},
			},
			"trustlines": map[string]any{
				"payhub":   res.PayhubTrust,
				"merchant": res.MerchantTrust,
			},
			"issuance": map[string]any{
				"txHash": res.IssuanceTxHash,
				"result": res.IssuanceResult,
			},
		})
	}
}
