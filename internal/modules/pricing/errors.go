package pricing

import "errors"

var ErrInvalidCoordinate = errors.New("invalid coordinate")
