/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package signer provides a JWS signer adapter over a raw signing capability.
package signer

import (
	"github.com/hyperledger/aries-framework-go/pkg/doc/jose"
)

// SignerAlgorithm is a raw signing capability bound to a single key and algorithm.
type SignerAlgorithm interface {
	Sign(data []byte) ([]byte, error)
	Alg() string
}

// JWSSigner adapts a SignerAlgorithm to the jose.Signer contract.
type JWSSigner struct {
	keyID            string
	signingAlgorithm string
	signer           SignerAlgorithm
}

// NewJWSSigner returns a JWSSigner that signs with the given key ID and algorithm.
func NewJWSSigner(keyID, signingAlgorithm string, signer SignerAlgorithm) *JWSSigner {
	return &JWSSigner{
		keyID:            keyID,
		signingAlgorithm: signingAlgorithm,
		signer:           signer,
	}
}

// Sign signs.
func (s *JWSSigner) Sign(data []byte) ([]byte, error) {
	return s.signer.Sign(data)
}

// Headers provides JWS headers. "alg" header must be provided (see https://tools.ietf.org/html/rfc7515#section-4.1)
func (s *JWSSigner) Headers() jose.Headers {
	return jose.Headers{
		jose.HeaderKeyID:     s.keyID,
		jose.HeaderAlgorithm: s.signingAlgorithm,
	}
}
