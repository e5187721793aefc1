package controllers

import (
	"net/http"
	"time"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/api/validators"
	"github.com/payhub-br/payhub-backend/internal/payments"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
)

type paymentRequest struct {
	PaymentType string `json:"paymentType" validate:"required"`
	Amount      any    `json:"amount"`
	Destination string `json:"destination"`

	// card branch only
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

// CreatePayment dispatches intake by payment type.
func CreatePayment(svc *payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req paymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		switch req.PaymentType {
		case payments.TypeCrypto:
			res, err := svc.ProcessCrypto(ctx, req.Destination, decimalFrom(req.Amount))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{
				"status":      "submitted",
				"paymentType": payments.TypeCrypto,
				"txHash":      res.TxHash,
				"sequence":    res.Sequence,
				"result":      res.Result,
			})

		case payments.TypePix:
			res := svc.ProcessPix(ctx)
			responses.WriteSuccess(w, map[string]any{
				"status":         "pending",
				"paymentType":    payments.TypePix,
				"pixKey":         res.PixKey,
				"expirationTime": res.ExpirationTime.UTC().Format(time.RFC3339Nano),
				"message":        "PIX payment initiated. Use the provided PIX key to complete the payment.",
				"instructions":   "Copy the PIX key and paste in your banking app to complete the payment.",
			})

		case payments.TypeCard:
			res, err := svc.ProcessCard(ctx, payments.CardParams{
				Number:         req.CardNumber,
				ExpiryDate:     req.ExpiryDate,
				CVV:            req.CVV,
				CardholderName: req.CardholderName,
				Amount:         decimalFrom(req.Amount),
			})
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			amount, _ := res.Amount.Float64()
			responses.WriteSuccess(w, map[string]any{
				"status":        "completed",
				"paymentType":   payments.TypeCard,
				"transactionId": res.TransactionID,
				"amount":        amount,
				"message":       "Card payment processed successfully.",
				"timestamp":     res.Timestamp.UTC().Format(time.RFC3339Nano),
			})

		default:
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type"))
		}
	}
}
