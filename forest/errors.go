package forest

import "errors"

var (
	ErrEmpty                   = errors.New("forest: empty forest")
	ErrRefRange                = errors.New("forest: ref out of range")
	ErrNotLeaf                 = errors.New("forest: node is not a leaf")
	ErrSoleRecord              = errors.New("forest: a sole record can only be removed by clearing the forest")
	ErrClosureExceeded         = errors.New("forest: closure count exceeds open levels")
	ErrDepthRange              = errors.New("forest: depth is not open at the tail")
	ErrMalformedRecords        = errors.New("forest: malformed closure records")
	ErrStoreFull               = errors.New("forest: record store full")
	ErrRecordCountDoesNotFit32 = errors.New("forest: record count does not fit in uint32")
)
