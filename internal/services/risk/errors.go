package risk

import "errors"

var ErrInvalidSubjectType = errors.New("invalid subject type")
