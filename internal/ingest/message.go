package ingest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/model"
)

// MessageKind classifies a message shown after a sync attempt.
type MessageKind int

const (
	KindNone MessageKind = iota
	KindConfirmation
	KindValidationError
	KindRequestError
	KindServerError
	KindUnknownError
)

func (k MessageKind) String() string {
	switch k {
	case KindConfirmation:
		return "confirmation"
	case KindValidationError:
		return "validation_error"
	case KindRequestError:
		return "request_error"
	case KindServerError:
		return "server_error"
	case KindUnknownError:
		return "unknown_error"
	}
	return "none"
}

// Message is the single line surfaced to the user.
type Message struct {
	Kind MessageKind
	Text string
}

// IsError reports whether m describes a failure.
func (m Message) IsError() bool {
	return m.Kind != KindNone && m.Kind != KindConfirmation
}

// Confirmation builds the success message for g. The app id comes from the
// returned record, falling back to the requested id.
func Confirmation(g model.Game, requested string) Message {
	appID := g.AppIDString()
	if appID == "" {
		appID = requested
	}
	return Message{
		Kind: KindConfirmation,
		Text: fmt.Sprintf(`Synced "%s" (appid: %s).`, g.Name, appID),
	}
}

// MessageFor turns a sync failure into a user-facing message. A server
// supplied detail is used verbatim; everything else gets a generic message
// with the failure context.
func MessageFor(err error, appID string) Message {
	var (
		verr *ValidationError
		serr *fetch.StatusError
		rerr *fetch.RequestError
	)

	switch {
	case errors.As(err, &verr):
		return Message{Kind: KindValidationError, Text: verr.Reason}

	case errors.As(err, &serr) && serr.Detail != "":
		return Message{Kind: KindServerError, Text: serr.Detail}

	case errors.As(err, &serr):
		return Message{
			Kind: KindUnknownError,
			Text: fmt.Sprintf("Sync failed for appid %s: %s", appID, statusText(serr.Status)),
		}

	case errors.As(err, &rerr):
		return Message{
			Kind: KindRequestError,
			Text: fmt.Sprintf("Sync request for appid %s failed: %v", appID, rerr.Err),
		}
	}

	return Message{
		Kind: KindUnknownError,
		Text: fmt.Sprintf("Sync failed for appid %s: %v", appID, err),
	}
}

func statusText(status int) string {
	return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
}
