package dashboard

import "errors"

var ErrInvalidTimezone = errors.New("tz must be a valid IANA time zone")
