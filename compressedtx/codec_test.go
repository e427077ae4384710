package compressedtx

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// --- test-only encoders, mirroring the wire format decoded in codec.go ---

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func putPathNode(buf *bytes.Buffer, n PathNode) {
	buf.Write(n.Node[:])
	putU64(buf, n.Index)
}

func encodeChangelogEventV1(buf *bytes.Buffer, ev ChangelogEventV1) {
	putU32(buf, changelogEventV1Tag)
	buf.Write(ev.ID[:])
	putU32(buf, uint32(len(ev.Paths)))
	for _, path := range ev.Paths {
		putU32(buf, uint32(len(path)))
		for _, n := range path {
			putPathNode(buf, n)
		}
	}
	putU64(buf, ev.Seq)
	putU64(buf, ev.Index)
}

func encodeChangelogs(events []ChangelogEventV1) []byte {
	var buf bytes.Buffer
	putU32(&buf, uint32(len(events)))
	for _, ev := range events {
		encodeChangelogEventV1(&buf, ev)
	}
	return buf.Bytes()
}

func encodeCompressedAccount(buf *bytes.Buffer, a CompressedAccount) {
	putU32(buf, uint32(len(a.Data)))
	buf.Write(a.Data)
}

type testOutputEvent struct {
	inHashes  []AccountHash
	outHashes []AccountHash
	inAccts   []CompressedAccountWithMerkleContext
	outAccts  []CompressedAccount
	pubkeys   []Pubkey
	tail      []byte
}

func encodePublicTransactionEvent(e testOutputEvent) []byte {
	var buf bytes.Buffer
	putU32(&buf, uint32(len(e.inHashes)))
	for _, h := range e.inHashes {
		buf.Write(h[:])
	}
	putU32(&buf, uint32(len(e.outHashes)))
	for _, h := range e.outHashes {
		buf.Write(h[:])
	}
	putU32(&buf, uint32(len(e.inAccts)))
	for _, a := range e.inAccts {
		encodeCompressedAccount(&buf, a.CompressedAccount)
		putU32(&buf, a.MerkleTreePubkeyIndex)
	}
	putU32(&buf, uint32(len(e.outAccts)))
	for _, a := range e.outAccts {
		encodeCompressedAccount(&buf, a)
	}
	putU32(&buf, uint32(len(e.pubkeys)))
	for _, pk := range e.pubkeys {
		buf.Write(pk[:])
	}
	buf.Write(e.tail)
	return buf.Bytes()
}

func pubkeyFrom(b byte) Pubkey {
	var pk Pubkey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func hashFrom(b byte) AccountHash {
	var h AccountHash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestDecodeChangelogsRoundTrip(t *testing.T) {
	tree := pubkeyFrom(0x11)
	events := []ChangelogEventV1{
		{
			ID: tree,
			Paths: [][]PathNode{
				{{Node: hashFrom(1), Index: 0}, {Node: hashFrom(2), Index: 1}, {Node: hashFrom(3), Index: 2}},
			},
			Seq:   7,
			Index: 3,
		},
	}
	data := encodeChangelogs(events)

	got, err := DecodeChangelogs(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(got.Events))
	}
	v1 := got.Events[0].V1
	if v1 == nil {
		t.Fatalf("expected v1 event")
	}
	if v1.ID != tree || v1.Seq != 7 || v1.Index != 3 {
		t.Fatalf("unexpected v1 fields: %+v", v1)
	}
	if len(v1.Paths) != 1 || len(v1.Paths[0]) != 3 {
		t.Fatalf("unexpected paths: %+v", v1.Paths)
	}
}

func TestDecodeChangelogsUnknownVariant(t *testing.T) {
	var buf bytes.Buffer
	putU32(&buf, 1) // one event
	putU32(&buf, 99) // unknown tag
	data := buf.Bytes()

	if _, err := DecodeChangelogs(data); err == nil {
		t.Fatalf("expected error for unknown variant tag")
	}
}

func TestDecodeChangelogsShortRead(t *testing.T) {
	data := []byte{1, 0, 0} // truncated length prefix
	if _, err := DecodeChangelogs(data); err == nil {
		t.Fatalf("expected error for short read")
	}
}

func TestDecodePublicTransactionEventRoundTrip(t *testing.T) {
	e := testOutputEvent{
		inHashes:  []AccountHash{hashFrom(0xAA)},
		outHashes: []AccountHash{hashFrom(0xBB)},
		inAccts: []CompressedAccountWithMerkleContext{
			{CompressedAccount: CompressedAccount{Data: []byte("in")}, MerkleTreePubkeyIndex: 0},
		},
		outAccts: []CompressedAccount{{Data: []byte("out")}},
		pubkeys:  []Pubkey{pubkeyFrom(0x01)},
		tail:     []byte{0xDE, 0xAD}, // ignored tail fields
	}
	data := encodePublicTransactionEvent(e)

	got, err := DecodePublicTransactionEvent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.InputCompressedAccountHashes) != 1 || got.InputCompressedAccountHashes[0] != e.inHashes[0] {
		t.Fatalf("input hashes mismatch: %+v", got.InputCompressedAccountHashes)
	}
	if len(got.OutputCompressedAccounts) != 1 || string(got.OutputCompressedAccounts[0].Data) != "out" {
		t.Fatalf("output accounts mismatch: %+v", got.OutputCompressedAccounts)
	}
	if len(got.PubkeyArray) != 1 || got.PubkeyArray[0] != e.pubkeys[0] {
		t.Fatalf("pubkey array mismatch: %+v", got.PubkeyArray)
	}
}

func TestDecodePublicTransactionEventNoTailRequired(t *testing.T) {
	e := testOutputEvent{pubkeys: []Pubkey{pubkeyFrom(0x02)}}
	data := encodePublicTransactionEvent(e)
	if _, err := DecodePublicTransactionEvent(data); err != nil {
		t.Fatalf("decode without tail: %v", err)
	}
}
