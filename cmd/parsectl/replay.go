package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/compressed-indexer/compressedtx"
	"github.com/synnergy-network/compressed-indexer/parserserver"
	"github.com/synnergy-network/compressed-indexer/pkg/utils"
)

// batchRecord is one entry in a recorded transaction batch fixture. Slot
// overrides the CLI's --slot flag when present, so a single file can replay
// transactions confirmed at different slots.
type batchRecord struct {
	Slot        *uint64                      `json:"slot,omitempty"`
	Transaction compressedtx.TransactionInfo `json:"transaction"`
}

// replayResult is one transaction's outcome, printed as a line of JSON.
type replayResult struct {
	Slot        uint64                    `json:"slot"`
	Error       string                    `json:"error,omitempty"`
	StateUpdate *compressedtx.StateUpdate `json:"state_update,omitempty"`
}

// loadBatch reads a JSON array of batchRecord from path.
func loadBatch(path string) ([]batchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.Wrap(err, "read batch file")
	}
	var records []batchRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, utils.Wrap(err, "parse batch file")
	}
	return records, nil
}

// runBatch parses every record through p, falling back to defaultSlot when a
// record carries no slot of its own, and records the outcome of each
// transaction in m. It never stops at the first failure: one malformed or
// unparseable transaction does not taint the rest of the batch.
func runBatch(p *compressedtx.Parser, m *parserserver.Metrics, records []batchRecord, defaultSlot uint64, out func(replayResult)) {
	for _, rec := range records {
		slot := defaultSlot
		if rec.Slot != nil {
			slot = *rec.Slot
		}

		start := time.Now()
		update, err := p.ParseTransaction(&rec.Transaction, slot)
		elapsed := time.Since(start)

		m.Observe(p.CountTriggers(&rec.Transaction, slot), err, elapsed)

		res := replayResult{Slot: slot}
		if err != nil {
			res.Error = err.Error()
		} else {
			res.StateUpdate = &update
		}
		out(res)
	}
}

// printResult writes one replayResult to stdout as a single line of JSON.
func printResult(lg *logrus.Logger, r replayResult) {
	encoded, err := json.Marshal(r)
	if err != nil {
		lg.WithError(err).Error("parsectl: encode result")
		return
	}
	fmt.Println(string(encoded))
}
