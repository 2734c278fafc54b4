package scoring

import "errors"

// ErrDuplicateItem reports an item ID seen more than once in a pass.
var ErrDuplicateItem = errors.New("duplicate item id")
