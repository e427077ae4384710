package compressedtx

// extractPathUpdates flattens every v1 changelog event's paths into a flat,
// order-preserving sequence of PathUpdate. Non-v1 events (which this codec
// currently never produces, see codec.go) would contribute nothing.
func extractPathUpdates(logs Changelogs) []PathUpdate {
	var updates []PathUpdate
	for _, ev := range logs.Events {
		if ev.V1 == nil {
			continue
		}
		for _, path := range ev.V1.Paths {
			updates = append(updates, PathUpdate{
				Tree: ev.V1.ID,
				Path: path,
				Seq:  ev.V1.Seq,
			})
		}
	}
	return updates
}

// assembleTrigger builds the StateUpdate for one matched trigger, given its
// already-decoded Changelogs and PublicTransactionEvent.
func assembleTrigger(sig Signature, slot uint64, event PublicTransactionEvent, logs Changelogs) (StateUpdate, error) {
	var update StateUpdate

	// Input accounts: positional zip against input hashes.
	n := len(event.InputCompressedAccounts)
	if len(event.InputCompressedAccountHashes) < n {
		n = len(event.InputCompressedAccountHashes)
	}
	for i := 0; i < n; i++ {
		acct := event.InputCompressedAccounts[i]
		if int(acct.MerkleTreePubkeyIndex) >= len(event.PubkeyArray) {
			return StateUpdate{}, newMalformedEvent(sig, "input account %d: merkle_tree_pubkey_index %d out of range (pubkey_array len %d)", i, acct.MerkleTreePubkeyIndex, len(event.PubkeyArray))
		}
		update.InAccounts = append(update.InAccounts, EnrichedAccount{
			Account: acct.CompressedAccount,
			Tree:    event.PubkeyArray[acct.MerkleTreePubkeyIndex],
			Seq:     nil,
			Slot:    slot,
			Hash:    event.InputCompressedAccountHashes[i],
		})
	}

	pathUpdates := extractPathUpdates(logs)

	// Every output account must have exactly one path update.
	if len(event.OutputCompressedAccounts) != len(pathUpdates) {
		return StateUpdate{}, newMalformedEvent(sig, "number of path updates (%d) did not match the number of output accounts (%d)", len(pathUpdates), len(event.OutputCompressedAccounts))
	}

	// Output accounts: positional zip against path updates and output
	// hashes. The binding is positional, never re-paired by hash; that is
	// the contract with the emitter.
	m := len(event.OutputCompressedAccounts)
	if len(event.OutputCompressedAccountHashes) < m {
		m = len(event.OutputCompressedAccountHashes)
	}
	for i := 0; i < m; i++ {
		seq := pathUpdates[i].Seq
		update.OutAccounts = append(update.OutAccounts, EnrichedAccount{
			Account: event.OutputCompressedAccounts[i],
			Tree:    pathUpdates[i].Tree,
			Seq:     &seq,
			Slot:    slot,
			Hash:    event.OutputCompressedAccountHashes[i],
		})
	}

	// Path expansion: each path's nodes become levels, leaf at level 0.
	for _, pu := range pathUpdates {
		depth := len(pu.Path)
		for level, node := range pu.Path {
			update.PathNodes = append(update.PathNodes, EnrichedPathNode{
				Node:      node.Node,
				Slot:      slot,
				Tree:      pu.Tree,
				Seq:       pu.Seq,
				Level:     level,
				TreeDepth: depth,
			})
		}
	}

	return update, nil
}
