package catalog

import "errors"

var (
	// ErrRemoteRejection is matched by every *RemoteRejectionError.
	ErrRemoteRejection = errors.New("remote rejection")
	// ErrMalformedDate is returned when a date is not in the dd/mm/yyyy format.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedNumber is returned when a numeric field does not parse.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrMalformedResponse is returned when a field that is consumed is missing or empty.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnexpectedResponse is returned when a response is not in the expected format at all,
	// like a body that is not an envelope or a non-2xx html page.
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrInvalidPayload     = errors.New("invalid payload")
)
