package compressedtx

import "context"

// TransactionSource is implemented by a block-fetching collaborator (RPC
// polling, gRPC streaming, …). This module never implements it; block
// fetching stays an interface producing the TransactionInfo values
// ParseTransaction consumes.
type TransactionSource interface {
	Transactions(ctx context.Context, slot uint64) ([]TransactionInfo, error)
}

// StateUpdateSink is implemented by the persistence collaborator that applies
// a StateUpdate to a relational store. This module never implements it.
type StateUpdateSink interface {
	Apply(ctx context.Context, slot uint64, update StateUpdate) error
}
