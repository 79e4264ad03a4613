package coreapi

import (
	"github.com/pep-project/crypto-core/errs"
	"github.com/pep-project/crypto-core/pseudonym"
	"github.com/pep-project/crypto-core/translator"
)

// KeyComponentHandler implements handle_key_component from spec §6: it
// resolves a certificate to a Recipient via the injected
// AuthorizationPolicy, then asks its translators for that recipient's key
// components. DataTranslator may be nil for a party that never performs
// data translation (it is then a programming error to authorize data
// access for such a party; it surfaces as MissingSecret).
type KeyComponentHandler struct {
	Pseudonym *translator.PseudonymTranslator
	Data      *translator.DataTranslator
	Policy    AuthorizationPolicy
}

// Handle resolves req.Certificate and returns this party's key components
// for the resolved recipient. The pseudonym component is always present;
// the data component is present only when the AuthorizationPolicy also
// granted data access.
func (h *KeyComponentHandler) Handle(req KeyComponentRequest) (KeyComponentResponse, error) {
	recipient, err := h.Policy.RecipientFor(req.Certificate)
	if err != nil {
		return KeyComponentResponse{}, err
	}

	resp := KeyComponentResponse{
		RequestID:          req.RequestID,
		PseudonymComponent: h.Pseudonym.GenerateKeyComponent(recipient.Pseudonym),
	}

	if recipient.Data != nil {
		if h.Data == nil {
			return KeyComponentResponse{}, errs.New(errs.MissingSecret, "party has no DataTranslator configured but policy granted data access")
		}
		component := h.Data.GenerateKeyComponent(*recipient.Data)
		resp.DataComponent = &component
	}

	return resp, nil
}

// TicketTranslationHandler implements the translate_step loop from spec
// §6's TicketTranslationRequest: it runs one uncertified RSK translation
// step per batch element toward Recipient.
type TicketTranslationHandler struct {
	Translator *translator.PseudonymTranslator
}

// Handle translates every element of req.Batch independently. Ordering and
// cancellation (spec §5) decompose the batch into independent single-value
// calls; one element's failure does not affect its siblings.
func (h *TicketTranslationHandler) Handle(req TicketTranslationRequest) []TicketTranslationResult {
	results := make([]TicketTranslationResult, len(req.Batch))
	for i, entry := range req.Batch {
		translated, err := h.Translator.TranslateStep(entry.Encryption(), req.Recipient)
		if err != nil {
			results[i] = TicketTranslationResult{Err: err}
			continue
		}
		wrapped, err := pseudonym.EncryptedLocalPseudonymFromEncryption(translated)
		if err != nil {
			results[i] = TicketTranslationResult{Err: err}
			continue
		}
		results[i] = TicketTranslationResult{Translated: wrapped}
	}
	return results
}
