/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4ci

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/trustbloc/wallet-client/pkg/wellknown"
)

// TransactionState is the client-side flow state carried across the redirect
// boundary of an authorization code grant. It is serialized opaquely and handed
// to the caller to persist until the callback. The encoding is tamper-evident
// but not signed: the state holds no secrets, only public flow metadata and a
// correlation nonce, so callers must not trust decoded content more than they
// trust whoever stored it.
type TransactionState struct {
	CredentialType string                         `json:"credential_type"`
	ClientID       string                         `json:"client_id"`
	IssuerMetadata *wellknown.OpenIDConfiguration `json:"issuer_metadata"`
	OAuthState     string                         `json:"oauth_state"`
}

// Marshal serializes the transaction state into a URL-safe string with an
// attached integrity tag. Incomplete state is rejected so that every string
// Marshal produces parses back successfully.
func (s *TransactionState) Marshal() (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal transaction state: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString(checksum(payload)), nil
}

// ParseTransactionState is the inverse of Marshal. It returns ErrMalformedState
// if the string does not decode to a structurally valid transaction state, or if
// the integrity tag does not match the payload.
func ParseTransactionState(raw string) (*TransactionState, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: expected two segments", ErrMalformedState)
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %s", ErrMalformedState, err)
	}

	tag, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode integrity tag: %s", ErrMalformedState, err)
	}

	if !equalChecksum(tag, checksum(payload)) {
		return nil, fmt.Errorf("%w: integrity tag mismatch", ErrMalformedState)
	}

	var state TransactionState

	if err = json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("%w: decode state: %s", ErrMalformedState, err)
	}

	if err = state.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedState, err)
	}

	return &state, nil
}

func (s *TransactionState) validate() error {
	if s.OAuthState == "" || s.IssuerMetadata == nil {
		return errors.New("incomplete transaction state")
	}

	return nil
}

func checksum(payload []byte) []byte {
	tag := make([]byte, crc32.Size)
	binary.BigEndian.PutUint32(tag, crc32.ChecksumIEEE(payload))

	return tag
}

func equalChecksum(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
