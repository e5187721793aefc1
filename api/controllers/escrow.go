package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/settlement"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type escrowCreateRequest struct {
	Destination        string `json:"destination"`
	AmountXRP          any    `json:"amount_xrp"`
	FinishAfterSeconds int64  `json:"finish_after_seconds"`
}

// CreateEscrow locks native XRP for the destination.
func CreateEscrow(svc *settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req escrowCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := svc.XRPEscrowCreate(ctx, req.Destination, decimalFrom(req.AmountXRP), req.FinishAfterSeconds)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status":   "submitted",
			"txHash":   res.TxHash,
			"sequence": res.Sequence,
			"owner":    res.Owner,
			"result":   res.Result,
		})
	}
}

type escrowFinishRequest struct {
	// A pointer distinguishes a missing offerSequence from sequence zero.
	OfferSequence *uint32 `json:"offerSequence"`
	Owner         string  `json:"owner"`
}

// FinishEscrow releases a pending escrow. The same wire shape serves both the
// native and the token escrow finish routes.
func FinishEscrow(svc *settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req escrowFinishRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if req.OfferSequence == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "offerSequence is required"))
			return
		}

		res, err := svc.EscrowFinish(ctx, *req.OfferSequence, req.Owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "submitted",
			"txHash": res.TxHash,
			"result": res.Result,
		})
	}
}

type tokenEscrowCreateRequest struct {
	Destination        string `json:"destination"`
	AmountValue        any    `json:"amount_value"`
	FinishAfterSeconds int64  `json:"finish_after_seconds"`
	CancelAfterSeconds int64  `json:"cancel_after_seconds"`
}

// CreateTokenEscrow settles a token amount, falling back to a direct payment
// when the node lacks TokenEscrow. The response mode says which one happened.
func CreateTokenEscrow(svc *settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req tokenEscrowCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := svc.TokenEscrowCreate(ctx, settlement.TokenEscrowParams{
			Destination:        req.Destination,
			Value:              decimalFrom(req.AmountValue),
			FinishAfterSeconds: req.FinishAfterSeconds,
			CancelAfterSeconds: req.CancelAfterSeconds,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := map[string]any{
			"status": "submitted",
			"mode":   res.Mode,
			"txHash": res.TxHash,
			"result": res.Result,
		}
		if res.Mode == settlement.ModeTokenEscrow {
			payload["sequence"] = res.Sequence
		}
		responses.WriteSuccess(w, payload)
	}
}
