package repository

import "errors"

// ErrDuplicate is returned when a conditional insert hits an existing unique key.
var ErrDuplicate = errors.New("repository: duplicate key")
