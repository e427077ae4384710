package compressedtx

import "encoding/binary"

// changelogEventV1Tag is the only tagged-union discriminant this module
// understands; the emitter reserves tag 0 for the v1 layout.
const changelogEventV1Tag uint32 = 0

// decoder reads the little-endian, length-prefixed binary format emitted by
// the account-compression program: fixed-size integers are little-endian, a
// sequence is a u32 length followed by that many elements, and a tagged
// union is a u32 tag followed by its variant body.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(b []byte) *decoder { return &decoder{buf: b} }

func (d *decoder) remaining() int { return len(d.buf) - d.pos }

func (d *decoder) take(field string, n int) ([]byte, error) {
	if n < 0 || d.remaining() < n {
		return nil, newParserError(field, "unexpected end of data", nil)
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) readU32(field string) (uint32, error) {
	b, err := d.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) readU64(field string) (uint64, error) {
	b, err := d.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) readLen(field string) (int, error) {
	n, err := d.readU32(field)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *decoder) readPubkey(field string) (Pubkey, error) {
	b, err := d.take(field, 32)
	if err != nil {
		return Pubkey{}, err
	}
	var out Pubkey
	copy(out[:], b)
	return out, nil
}

func (d *decoder) readAccountHash(field string) (AccountHash, error) {
	b, err := d.take(field, 32)
	if err != nil {
		return AccountHash{}, err
	}
	var out AccountHash
	copy(out[:], b)
	return out, nil
}

func (d *decoder) readBytesSeq(field string) ([]byte, error) {
	n, err := d.readLen(field)
	if err != nil {
		return nil, err
	}
	b, err := d.take(field, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *decoder) readPathNode(field string) (PathNode, error) {
	node, err := d.readAccountHash(field + ".node")
	if err != nil {
		return PathNode{}, err
	}
	index, err := d.readU64(field + ".index")
	if err != nil {
		return PathNode{}, err
	}
	return PathNode{Node: node, Index: index}, nil
}

func (d *decoder) readPath(field string) ([]PathNode, error) {
	n, err := d.readLen(field)
	if err != nil {
		return nil, err
	}
	path := make([]PathNode, n)
	for i := range path {
		node, err := d.readPathNode(field)
		if err != nil {
			return nil, err
		}
		path[i] = node
	}
	return path, nil
}

func (d *decoder) readChangelogEventV1(field string) (*ChangelogEventV1, error) {
	id, err := d.readPubkey(field + ".id")
	if err != nil {
		return nil, err
	}
	pathsLen, err := d.readLen(field + ".paths")
	if err != nil {
		return nil, err
	}
	paths := make([][]PathNode, pathsLen)
	for i := range paths {
		p, err := d.readPath(field + ".paths[]")
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	seq, err := d.readU64(field + ".seq")
	if err != nil {
		return nil, err
	}
	index, err := d.readU64(field + ".index")
	if err != nil {
		return nil, err
	}
	return &ChangelogEventV1{ID: id, Paths: paths, Seq: seq, Index: index}, nil
}

func (d *decoder) readChangelogEvent(field string) (ChangelogEvent, error) {
	tag, err := d.readU32(field + ".tag")
	if err != nil {
		return ChangelogEvent{}, err
	}
	if tag != changelogEventV1Tag {
		return ChangelogEvent{}, newParserError(field, "unknown changelog event variant tag", nil)
	}
	v1, err := d.readChangelogEventV1(field)
	if err != nil {
		return ChangelogEvent{}, err
	}
	return ChangelogEvent{Variant: tag, V1: v1}, nil
}

// DecodeChangelogs decodes a Changelogs payload: a sequence of tagged-union
// ChangelogEvent values. Trailing unused bytes are not an error.
func DecodeChangelogs(data []byte) (Changelogs, error) {
	d := newDecoder(data)
	n, err := d.readLen("changelogs")
	if err != nil {
		return Changelogs{}, err
	}
	events := make([]ChangelogEvent, n)
	for i := range events {
		ev, err := d.readChangelogEvent("changelogs.event")
		if err != nil {
			return Changelogs{}, err
		}
		events[i] = ev
	}
	return Changelogs{Events: events}, nil
}

func (d *decoder) readCompressedAccount(field string) (CompressedAccount, error) {
	data, err := d.readBytesSeq(field + ".data")
	if err != nil {
		return CompressedAccount{}, err
	}
	return CompressedAccount{Data: data}, nil
}

func (d *decoder) readCompressedAccountWithMerkleContext(field string) (CompressedAccountWithMerkleContext, error) {
	acct, err := d.readCompressedAccount(field + ".compressed_account")
	if err != nil {
		return CompressedAccountWithMerkleContext{}, err
	}
	idx, err := d.readU32(field + ".merkle_tree_pubkey_index")
	if err != nil {
		return CompressedAccountWithMerkleContext{}, err
	}
	return CompressedAccountWithMerkleContext{CompressedAccount: acct, MerkleTreePubkeyIndex: idx}, nil
}

// DecodePublicTransactionEvent decodes a PublicTransactionEvent payload.
// Only the leading fields the parser needs are consumed; any tail fields
// the emitter appends are left unread, never an error.
func DecodePublicTransactionEvent(data []byte) (PublicTransactionEvent, error) {
	d := newDecoder(data)

	inHashesLen, err := d.readLen("input_compressed_account_hashes")
	if err != nil {
		return PublicTransactionEvent{}, err
	}
	inHashes := make([]AccountHash, inHashesLen)
	for i := range inHashes {
		h, err := d.readAccountHash("input_compressed_account_hashes[]")
		if err != nil {
			return PublicTransactionEvent{}, err
		}
		inHashes[i] = h
	}

	outHashesLen, err := d.readLen("output_compressed_account_hashes")
	if err != nil {
		return PublicTransactionEvent{}, err
	}
	outHashes := make([]AccountHash, outHashesLen)
	for i := range outHashes {
		h, err := d.readAccountHash("output_compressed_account_hashes[]")
		if err != nil {
			return PublicTransactionEvent{}, err
		}
		outHashes[i] = h
	}

	inAcctsLen, err := d.readLen("input_compressed_accounts")
	if err != nil {
		return PublicTransactionEvent{}, err
	}
	inAccts := make([]CompressedAccountWithMerkleContext, inAcctsLen)
	for i := range inAccts {
		a, err := d.readCompressedAccountWithMerkleContext("input_compressed_accounts[]")
		if err != nil {
			return PublicTransactionEvent{}, err
		}
		inAccts[i] = a
	}

	outAcctsLen, err := d.readLen("output_compressed_accounts")
	if err != nil {
		return PublicTransactionEvent{}, err
	}
	outAccts := make([]CompressedAccount, outAcctsLen)
	for i := range outAccts {
		a, err := d.readCompressedAccount("output_compressed_accounts[]")
		if err != nil {
			return PublicTransactionEvent{}, err
		}
		outAccts[i] = a
	}

	pubkeysLen, err := d.readLen("pubkey_array")
	if err != nil {
		return PublicTransactionEvent{}, err
	}
	pubkeys := make([]Pubkey, pubkeysLen)
	for i := range pubkeys {
		pk, err := d.readPubkey("pubkey_array[]")
		if err != nil {
			return PublicTransactionEvent{}, err
		}
		pubkeys[i] = pk
	}

	// Remaining bytes, if any, are emitter tail fields this parser does not
	// need. Leaving them unread keeps earlier fields aligned without
	// requiring knowledge of their layout.
	return PublicTransactionEvent{
		InputCompressedAccountHashes:  inHashes,
		OutputCompressedAccountHashes: outHashes,
		InputCompressedAccounts:       inAccts,
		OutputCompressedAccounts:      outAccts,
		PubkeyArray:                   pubkeys,
	}, nil
}
