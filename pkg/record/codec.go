package record

import (
	"encoding/json"
	"fmt"
)

// Stored values use a versioned binary encoding: a single version byte
// followed by a JSON body. The version byte lets the on-disk format evolve
// without a schema migration; decoding rejects unknown versions outright.
const codecVersion = 0x01

// Maximum encoded value sizes. Values exceeding these bounds are rejected
// at encode time so the stores never hold an oversized entry.
const (
	MaxRecordBytes     = 8192
	MaxAuditEntryBytes = 4096
)

// EncodeRecord serializes a record into its stored form.
func EncodeRecord(rec *Record) ([]byte, error) {
	return encode(rec, MaxRecordBytes)
}

// DecodeRecord deserializes a stored record. A failure here means the
// stored bytes are corrupt and must be surfaced as fatal.
func DecodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := decode(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// EncodeAuditEntry serializes an audit entry into its stored form.
func EncodeAuditEntry(entry *AuditEntry) ([]byte, error) {
	return encode(entry, MaxAuditEntryBytes)
}

// DecodeAuditEntry deserializes a stored audit entry.
func DecodeAuditEntry(data []byte) (*AuditEntry, error) {
	var entry AuditEntry
	if err := decode(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func encode(v interface{}, maxSize int) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	encoded := make([]byte, 0, len(body)+1)
	encoded = append(encoded, codecVersion)
	encoded = append(encoded, body...)

	if len(encoded) > maxSize {
		return nil, fmt.Errorf("encoded value is %d bytes, exceeds maximum %d", len(encoded), maxSize)
	}

	return encoded, nil
}

func decode(data []byte, v interface{}) error {
	if len(data) < 2 {
		return fmt.Errorf("decode: value truncated (%d bytes)", len(data))
	}
	if data[0] != codecVersion {
		return fmt.Errorf("decode: unsupported codec version 0x%02x", data[0])
	}
	if err := json.Unmarshal(data[1:], v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
