// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package did mints stable decentralized identifiers for graph subjects.
// The did:kb method derives the identifier from the subject IRI, so the
// same subject gets the same DID across loads and across machines.
package did

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// Method is the DID method name used for knowledge-base subjects.
const Method = "kb"

var idRe = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Mint returns the deterministic DID for a subject IRI: the first 16 hex
// characters of SHA-256 over the IRI.
func Mint(subjectIRI string) string {
	sum := sha256.Sum256([]byte(subjectIRI))
	return fmt.Sprintf("did:%s:%s", Method, fmt.Sprintf("%x", sum)[:16])
}

// Parse splits a did:kb identifier and returns its method-specific ID.
func Parse(did string) (string, error) {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) != 3 || parts[0] != "did" {
		return "", fmt.Errorf("malformed DID %q", did)
	}
	if parts[1] != Method {
		return "", fmt.Errorf("unsupported DID method %q", parts[1])
	}
	if !idRe.MatchString(parts[2]) {
		return "", fmt.Errorf("malformed DID identifier %q", parts[2])
	}
	return parts[2], nil
}

// Validate reports whether the string is a well-formed did:kb identifier.
func Validate(did string) bool {
	_, err := Parse(did)
	return err == nil
}
