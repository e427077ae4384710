package compressedtx

// Merge concatenates a and b, a's entries first, and returns the result as a
// new StateUpdate. Merge is associative and merging with an empty
// StateUpdate is the identity. It never de-duplicates; downstream layers do.
func Merge(a, b StateUpdate) StateUpdate {
	out := StateUpdate{
		InAccounts:  make([]EnrichedAccount, 0, len(a.InAccounts)+len(b.InAccounts)),
		OutAccounts: make([]EnrichedAccount, 0, len(a.OutAccounts)+len(b.OutAccounts)),
		PathNodes:   make([]EnrichedPathNode, 0, len(a.PathNodes)+len(b.PathNodes)),
	}
	out.InAccounts = append(out.InAccounts, a.InAccounts...)
	out.InAccounts = append(out.InAccounts, b.InAccounts...)
	out.OutAccounts = append(out.OutAccounts, a.OutAccounts...)
	out.OutAccounts = append(out.OutAccounts, b.OutAccounts...)
	out.PathNodes = append(out.PathNodes, a.PathNodes...)
	out.PathNodes = append(out.PathNodes, b.PathNodes...)
	return out
}

// MergeUpdates left-folds Merge over updates, starting from an empty
// StateUpdate. Callers use this both to combine a transaction's per-trigger
// updates and, across transactions, to combine a block's updates; order
// follows the scanner's traversal order.
func MergeUpdates(updates []StateUpdate) StateUpdate {
	var out StateUpdate
	for _, u := range updates {
		out = Merge(out, u)
	}
	return out
}
