package poller

import (
	stderrors "errors"

	"github.com/BearBump/ReviewBox/internal/integrations/reviews"
	"github.com/BearBump/ReviewBox/internal/integrations/telegram"
	"github.com/BearBump/ReviewBox/internal/models"
)

// ErrorKind classifies a cycle error for logs and metrics.
func ErrorKind(err error) string {
	var (
		remote    *reviews.RemoteServerError
		malformed *reviews.MalformedResponseError
		invalid   *InvalidResponseTypeError
		content   *ResponseContentError
		missing   *MissingFieldError
		unknown   *models.UnknownStatusError
		delivery  *telegram.DeliveryError
	)
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &remote):
		return "remote_server"
	case stderrors.As(err, &malformed):
		return "malformed_response"
	case stderrors.As(err, &invalid):
		return "invalid_response_type"
	case stderrors.As(err, &content):
		return "response_content"
	case stderrors.As(err, &missing):
		return "missing_field"
	case stderrors.As(err, &unknown):
		return "unknown_status"
	case stderrors.As(err, &delivery):
		return "delivery"
	default:
		return "transport"
	}
}
