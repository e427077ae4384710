package compressedtx

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// base58-encoded Solana program IDs of the deployed on-chain programs,
// decoded once at package init. They change only with a chain upgrade.
const (
	accountCompressionProgramIDBase58 = "5QPEJ5zDsVou9FQS3KCauKswM3VwBEBu4dpL9xTqkWwN"
	noopProgramIDBase58                = "noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV"
)

// ACCOUNT_COMPRESSION_PROGRAM_ID and NOOP_PROGRAM_ID are the two program IDs
// that make up the trigger pattern the scanner looks for.
var (
	ACCOUNT_COMPRESSION_PROGRAM_ID = mustDecodePubkey(accountCompressionProgramIDBase58)
	NOOP_PROGRAM_ID                = mustDecodePubkey(noopProgramIDBase58)
)

func mustDecodePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic("compressedtx: invalid program id constant: " + err.Error())
	}
	return pk
}

// ParsePubkey decodes a base58-encoded 32-byte public key, the textual form
// the chain (and this module's config files) use for account keys.
func ParsePubkey(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("invalid base58 pubkey %q: %w", s, err)
	}
	if len(b) != 32 {
		return Pubkey{}, fmt.Errorf("pubkey %q decodes to %d bytes, want 32", s, len(b))
	}
	var pk Pubkey
	copy(pk[:], b)
	return pk, nil
}

// ProgramIDs carries the two program IDs the trigger pattern matches against.
// The zero value is not usable; start from DefaultProgramIDs when overriding
// for a chain upgrade.
type ProgramIDs struct {
	AccountCompression Pubkey
	Noop               Pubkey
}

// DefaultProgramIDs returns the compiled-in program IDs of the currently
// deployed chain programs.
func DefaultProgramIDs() ProgramIDs {
	return ProgramIDs{
		AccountCompression: ACCOUNT_COMPRESSION_PROGRAM_ID,
		Noop:               NOOP_PROGRAM_ID,
	}
}

// String renders a Pubkey in the chain's native base58 encoding, the same
// textual form logs and CLI output use.
func (p Pubkey) String() string { return base58.Encode(p[:]) }

// trigger is one matched three-instruction occurrence: the two payloads to
// decode, already sliced out of their instructions' data.
type trigger struct {
	changelogsData []byte
	eventData      []byte
}

const loggedSignatureCacheSize = 4096

// Scanner walks a transaction's instruction groups looking for the
// account-compression → noop → noop trigger pattern. It is safe to reuse
// across transactions within one worker; it is not required, only an
// optimization for the once-per-transaction debug log.
type Scanner struct {
	log    *logrus.Logger
	ids    ProgramIDs
	logged *lru.Cache[Signature, struct{}]
}

// NewScanner builds a Scanner matching the compiled-in program IDs, logging
// through lg. A nil logger disables the once-per-transaction debug log.
func NewScanner(lg *logrus.Logger) *Scanner {
	return NewScannerWithProgramIDs(lg, DefaultProgramIDs())
}

// NewScannerWithProgramIDs builds a Scanner matching ids instead of the
// compiled-in defaults, for deployments where the chain's programs live at
// different addresses.
func NewScannerWithProgramIDs(lg *logrus.Logger, ids ProgramIDs) *Scanner {
	cache, err := lru.New[Signature, struct{}](loggedSignatureCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// loggedSignatureCacheSize never is.
		panic(err)
	}
	return &Scanner{log: lg, ids: ids, logged: cache}
}

// accountsContain reports whether accounts contains target.
func accountsContain(accounts []Pubkey, target Pubkey) bool {
	for _, a := range accounts {
		if a == target {
			return true
		}
	}
	return false
}

// Scan returns, in traversal order (outer instruction then inner
// instructions, across instruction groups in order), every occurrence of
// the trigger pattern:
//
//  1. inst[i].ProgramID is the account-compression program
//  2. the noop program appears in inst[i].Accounts
//  3. inst[i+1].ProgramID is the noop program
//  4. inst[i+2].ProgramID is the noop program
//
// After a match at i, scanning continues at i+1.
func (s *Scanner) Scan(tx *TransactionInfo, slot uint64) []trigger {
	var triggers []trigger
	loggedThisTx := false

	for _, group := range tx.InstructionGroups {
		ordered := make([]Instruction, 0, 1+len(group.Inner))
		ordered = append(ordered, group.Outer)
		ordered = append(ordered, group.Inner...)

		for i := 0; i+2 < len(ordered); i++ {
			inst := ordered[i]
			next := ordered[i+1]
			nextNext := ordered[i+2]

			if inst.ProgramID != s.ids.AccountCompression {
				continue
			}
			if !accountsContain(inst.Accounts, s.ids.Noop) {
				continue
			}
			if next.ProgramID != s.ids.Noop || nextNext.ProgramID != s.ids.Noop {
				continue
			}

			if !loggedThisTx {
				s.logFirstMatch(tx.Signature, slot)
				loggedThisTx = true
			}

			triggers = append(triggers, trigger{
				changelogsData: next.Data,
				eventData:      nextNext.Data,
			})
		}
	}

	return triggers
}

func (s *Scanner) logFirstMatch(sig Signature, slot uint64) {
	if s.log == nil {
		return
	}
	if _, seen := s.logged.Get(sig); seen {
		return
	}
	s.logged.Add(sig, struct{}{})
	s.log.WithFields(logrus.Fields{
		"signature": base58.Encode(sig[:]),
		"slot":      slot,
	}).Debug("indexing transaction with compressed-state event")
}
