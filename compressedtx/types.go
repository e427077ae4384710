// Package compressedtx turns decoded transactions from an account-compression
// program invocation into deterministic state updates for compressed
// accounts held in sparse Merkle trees.
package compressedtx

// Pubkey is a 32-byte public key, the same width the chain uses for program
// IDs, tree identities, and account owners.
type Pubkey [32]byte

// Signature is a 64-byte transaction signature.
type Signature [64]byte

// AccountHash is the 32-byte hash of a compressed account's state.
type AccountHash [32]byte

// Instruction is one invocation within a transaction: the program it targets,
// the ordered account list it was given, and its opaque instruction data.
type Instruction struct {
	ProgramID Pubkey   `json:"program_id"`
	Accounts  []Pubkey `json:"accounts"`
	Data      []byte   `json:"data"`
}

// InstructionGroup is an outer instruction plus the inner instructions CPI'd
// from it, in emission order.
type InstructionGroup struct {
	Outer Instruction   `json:"outer_instruction"`
	Inner []Instruction `json:"inner_instructions"`
}

// TransactionInfo is the decoded, confirmed transaction the scanner walks.
type TransactionInfo struct {
	Signature         Signature          `json:"signature"`
	InstructionGroups []InstructionGroup `json:"instruction_groups"`
}

// PathNode is one (node_hash, index) pair on a Merkle path.
type PathNode struct {
	Node  AccountHash
	Index uint64
}

// ChangelogEvent is one decoded change-log event. Only the v1 layout is
// understood; Variant records the wire tag. The codec returns an error for
// any other tag (see codec.go), so a decoded event always has Variant 0 and
// a non-nil V1.
type ChangelogEvent struct {
	Variant uint32
	V1      *ChangelogEventV1
}

// ChangelogEventV1 is the only changelog variant this module knows how to
// decode. Index is carried through but never consumed by the assembler.
type ChangelogEventV1 struct {
	ID    Pubkey
	Paths [][]PathNode
	Seq   uint64
	Index uint64
}

// Changelogs is the decoded payload of the second instruction in a matched
// trigger (inst[i+1]).
type Changelogs struct {
	Events []ChangelogEvent
}

// CompressedAccount is the opaque, emitter-defined account payload. The
// parser never interprets its contents, only relays it.
type CompressedAccount struct {
	Data []byte
}

// CompressedAccountWithMerkleContext pairs a compressed account with the
// index of its owning tree's pubkey inside the event's shared pubkey table.
type CompressedAccountWithMerkleContext struct {
	CompressedAccount     CompressedAccount
	MerkleTreePubkeyIndex uint32
}

// PublicTransactionEvent is the decoded payload of the third instruction in a
// matched trigger (inst[i+2]).
type PublicTransactionEvent struct {
	InputCompressedAccountHashes  []AccountHash
	OutputCompressedAccountHashes []AccountHash
	InputCompressedAccounts       []CompressedAccountWithMerkleContext
	OutputCompressedAccounts      []CompressedAccount
	PubkeyArray                   []Pubkey
}

// PathUpdate is a single tree's path flattened out of a Changelogs event,
// positionally zipped against one output account during assembly.
type PathUpdate struct {
	Tree Pubkey
	Path []PathNode
	Seq  uint64
}

// EnrichedAccount is an input or output compressed account annotated with
// its tree, slot, and (for outputs only) sequence number.
type EnrichedAccount struct {
	Account CompressedAccount
	Tree    Pubkey
	Seq     *uint64
	Slot    uint64
	Hash    AccountHash
}

// EnrichedPathNode is one level of an expanded Merkle path, annotated with
// the slot, tree, and sequence of the update that produced it.
type EnrichedPathNode struct {
	Node      AccountHash
	Slot      uint64
	Tree      Pubkey
	Seq       uint64
	Level     int
	TreeDepth int
}

// StateUpdate is the deterministic result of parsing a transaction (or, once
// merged, a whole block): every enriched input/output account and every
// expanded path node, in scanner traversal order.
type StateUpdate struct {
	InAccounts  []EnrichedAccount
	OutAccounts []EnrichedAccount
	PathNodes   []EnrichedPathNode
}
