package domain

import "github.com/light-bringer/rawsy-service/internal/pkg/apperr"

var (
	ErrQuoteNotFound       = apperr.New(apperr.KindNotFound, "quote not found")
	ErrBuyerOnly           = apperr.New(apperr.KindForbidden, "only buyers can request quotes")
	ErrNotQuoteParty       = apperr.New(apperr.KindForbidden, "not a party to this quote")
	ErrNotNegotiable       = apperr.New(apperr.KindValidation, "product is not open to negotiation")
	ErrInvalidQuantity     = apperr.New(apperr.KindValidation, "quantity must be positive")
	ErrInvalidCounterPrice = apperr.New(apperr.KindValidation, "counter price must be positive")
	ErrOwnProduct          = apperr.New(apperr.KindValidation, "cannot request a quote on your own product")
	ErrQuoteConflict       = apperr.New(apperr.KindConflict, "quote changed concurrently, reload and retry")
)

func invalidTransition(from Status, side Side, action Action) error {
	if from.IsTerminal() {
		return apperr.Newf(apperr.KindInvalidTransition, "quote is %s and accepts no further actions", from)
	}
	return apperr.Newf(apperr.KindInvalidTransition, "%s cannot %s a quote in status %s", side, action, from)
}
