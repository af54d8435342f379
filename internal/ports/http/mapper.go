package http

import (
	"errors"

	"github.com/jatsharma/stackera-project/internal/application/listing"
	"github.com/jatsharma/stackera-project/internal/domain/price"
)

const (
	MsgUpstreamFailure = "Error occured while getting data from Uniswap, Please try again later."
	MsgMalformedPrice  = "Something went wrong, please try again after sometime"
)

// ToErrorResponse maps a service error to the client message. Validation
// errors keep their own text; everything unrecognised is reported as an
// upstream failure.
func ToErrorResponse(err error) ErrorResponse {
	var ve *listing.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorResponse{Message: ve.Message}
	case errors.Is(err, price.ErrMalformedPrice):
		return ErrorResponse{Message: MsgMalformedPrice}
	default:
		return ErrorResponse{Message: MsgUpstreamFailure}
	}
}

// IsClientError reports whether err was caused by the request parameters.
func IsClientError(err error) bool {
	var ve *listing.ValidationError
	return errors.As(err, &ve)
}
