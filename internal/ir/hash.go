package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRequest is the domain prefix for content-addressed request
// identity. The version suffix enables future algorithm migration.
const DomainRequest = "fieldgate/request/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RequestHash computes a content-addressed hash of a validation request.
// Identical requests produce identical hashes across restarts, so the
// audit log can correlate repeated submissions.
func RequestHash(schema, data Value, rules Array) (string, error) {
	obj := Object{
		"schema": orNull(schema),
		"data":   orNull(data),
		"rules":  rules,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RequestHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}
