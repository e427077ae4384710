package compressedtx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a Pubkey as a hex string so fixed-size byte arrays
// stay readable in batch fixtures and replay output.
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p[:]))
}

// UnmarshalJSON parses a hex-encoded Pubkey.
func (p *Pubkey) UnmarshalJSON(data []byte) error {
	return unmarshalFixedHex(data, p[:], "Pubkey")
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s[:]))
}

func (s *Signature) UnmarshalJSON(data []byte) error {
	return unmarshalFixedHex(data, s[:], "Signature")
}

func (h AccountHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h[:]))
}

func (h *AccountHash) UnmarshalJSON(data []byte) error {
	return unmarshalFixedHex(data, h[:], "AccountHash")
}

func unmarshalFixedHex(data []byte, dst []byte, typeName string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", typeName, err)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%s: invalid hex: %w", typeName, err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%s: expected %d bytes, got %d", typeName, len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// Instruction's Data and CompressedAccount's Data are plain []byte and
// already marshal as base64 strings via encoding/json's default []byte
// handling, so no custom codec is needed there.
