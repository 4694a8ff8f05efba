package service

import (
	"errors"
	"fmt"
)

// Outcome classifies how a question was handled.
type Outcome string

const (
	OutcomeAnswered        Outcome = "answered"
	OutcomeMissingDocument Outcome = "missing_document"
	OutcomeEmptyContext    Outcome = "empty_context"
	OutcomeContextTooLarge Outcome = "context_too_large"
	OutcomeRateLimited     Outcome = "rate_limited"
	OutcomeProviderError   Outcome = "provider_error"
	OutcomeUnknownError    Outcome = "unknown_error"
)

const rateLimitedMessage = "⚠️ **Rate Limit Reached**\n\n" +
	"The system has reached its usage limit for this minute. This typically happens when processing large amounts of text.\n\n" +
	"**What you can do:**\n" +
	"• Wait a minute and try again\n" +
	"• Try a narrower scope (a single agreement) instead of both\n" +
	"• Simplify your question to reduce processing requirements\n\n" +
	"This limit resets every minute, so you'll be able to continue shortly."

const providerErrorMessage = "⚠️ **API Error**\n\n" +
	"There was an issue connecting to the AI service. Please try again in a moment.\n\n" +
	"If the problem persists, please contact support."

const unknownErrorMessage = "⚠️ **Unexpected Error**\n\n" +
	"Something went wrong while processing your request. Please try again.\n\n" +
	"If the issue continues, please contact support."

const emptyContextMessage = "❌ **Error**: No agreement content available for the selected option."

const contextTooLargeMessage = "⚠️ **Agreement Too Large**\n\n" +
	"The selected agreements are larger than this deployment allows in a single request. " +
	"Try a narrower scope (a single agreement) instead."

// OutcomeForError maps an assembly or completion error to an outcome. A nil
// error is OutcomeAnswered.
func OutcomeForError(err error) Outcome {
	if err == nil {
		return OutcomeAnswered
	}

	var missing *MissingDocumentError
	var tooLarge *ContextTooLargeError
	switch {
	case errors.As(err, &missing):
		return OutcomeMissingDocument
	case errors.Is(err, ErrEmptyContext):
		return OutcomeEmptyContext
	case errors.As(err, &tooLarge):
		return OutcomeContextTooLarge
	}

	switch KindOf(err) {
	case KindRateLimited:
		return OutcomeRateLimited
	case KindProviderError:
		return OutcomeProviderError
	default:
		return OutcomeUnknownError
	}
}

// UserMessage returns the text shown to the user, and recorded as the
// assistant turn, when a question fails with err.
func UserMessage(err error) string {
	var missing *MissingDocumentError
	if errors.As(err, &missing) {
		return fmt.Sprintf("❌ **Error**: %s not found.", missing.Label)
	}

	switch OutcomeForError(err) {
	case OutcomeEmptyContext:
		return emptyContextMessage
	case OutcomeContextTooLarge:
		return contextTooLargeMessage
	case OutcomeRateLimited:
		return rateLimitedMessage
	case OutcomeProviderError:
		return providerErrorMessage
	default:
		return unknownErrorMessage
	}
}
