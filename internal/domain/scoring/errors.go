package scoring

import "errors"

var (
	ErrUnknownRule    = errors.New("unknown scoring rule")
	ErrNegativeWeight = errors.New("negative weight")
)
