package memory

import "errors"

var ErrNotFound = errors.New("not found")
