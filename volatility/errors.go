package volatility

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every precondition failure in this module.
var ErrInvalidArgument = errors.New("invalid argument")

// NoImpliedVolatilityError reports a target price that no non-negative
// volatility reproduces.
type NoImpliedVolatilityError struct {
	Price float64
	Err   error
}

func (e *NoImpliedVolatilityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no implied volatility for this price [price: %v]", e.Price)
	}
	return fmt.Sprintf("no implied volatility for this price [price: %v]: %v", e.Price, e.Err)
}

func (e *NoImpliedVolatilityError) Unwrap() error {
	return e.Err
}

// InvalidArgument builds an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsNoImpliedVolatility reports whether err carries a NoImpliedVolatilityError.
func IsNoImpliedVolatility(err error) bool {
	var target *NoImpliedVolatilityError
	return errors.As(err, &target)
}
