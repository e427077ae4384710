package compressedtx

import "github.com/sirupsen/logrus"

// Parser is a pure, synchronous transaction-to-StateUpdate parser. It holds
// no mutable state beyond the scanner's bounded once-per-signature log
// dedupe cache, so a single Parser may be shared across goroutines parsing
// different transactions concurrently.
type Parser struct {
	scanner *Scanner
}

// NewParser builds a Parser that logs through lg. Pass nil to disable the
// once-per-transaction debug log.
func NewParser(lg *logrus.Logger) *Parser {
	return &Parser{scanner: NewScanner(lg)}
}

// NewParserWithProgramIDs builds a Parser whose scanner matches ids instead
// of the compiled-in program IDs.
func NewParserWithProgramIDs(lg *logrus.Logger, ids ProgramIDs) *Parser {
	return &Parser{scanner: NewScannerWithProgramIDs(lg, ids)}
}

// CountTriggers reports how many trigger patterns the scanner finds in tx
// without decoding or assembling anything. Callers feed it into throughput
// metrics; the once-per-signature log dedupe keeps it from double-logging a
// transaction that is subsequently parsed.
func (p *Parser) CountTriggers(tx *TransactionInfo, slot uint64) int {
	return len(p.scanner.Scan(tx, slot))
}

// ParseTransaction scans tx for every account-compression → noop → noop
// trigger, decodes and assembles each one, and merges the results into a
// single StateUpdate. A transaction with no triggers returns an empty
// StateUpdate and a nil error. A decode failure or a violated structural
// invariant fails the whole transaction; it never taints any other
// transaction.
func (p *Parser) ParseTransaction(tx *TransactionInfo, slot uint64) (StateUpdate, error) {
	triggers := p.scanner.Scan(tx, slot)
	if len(triggers) == 0 {
		return StateUpdate{}, nil
	}

	updates := make([]StateUpdate, 0, len(triggers))
	for _, t := range triggers {
		logs, err := DecodeChangelogs(t.changelogsData)
		if err != nil {
			return StateUpdate{}, wrapDecodeErr(err, "Changelogs")
		}

		event, err := DecodePublicTransactionEvent(t.eventData)
		if err != nil {
			return StateUpdate{}, wrapDecodeErr(err, "PublicTransactionEvent")
		}

		update, err := assembleTrigger(tx.Signature, slot, event, logs)
		if err != nil {
			return StateUpdate{}, err
		}
		updates = append(updates, update)
	}

	return MergeUpdates(updates), nil
}

// wrapDecodeErr names the payload a decode failure came from without losing
// the *ParserError chain.
func wrapDecodeErr(err error, payload string) error {
	if pe, ok := err.(*ParserError); ok {
		return newParserError(payload, "failed to deserialize: "+pe.Error(), pe)
	}
	return newParserError(payload, "failed to deserialize", err)
}
