package blockchain

import (
	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryOption is a functional option for list queries
type QueryOption func(*query.PageRequest)

// WithPagination sets pagination parameters
func WithPagination(limit, offset uint64) QueryOption {
	return func(req *query.PageRequest) {
		req.Limit = limit
		req.Offset = offset
	}
}

// WithReverse lists newest entries first.
func WithReverse() QueryOption {
	return func(req *query.PageRequest) {
		req.Reverse = true
	}
}

func pageRequest(opts []QueryOption) *query.PageRequest {
	if len(opts) == 0 {
		return nil
	}
	req := &query.PageRequest{}
	for _, opt := range opts {
		if opt != nil {
			opt(req)
		}
	}
	return req
}
