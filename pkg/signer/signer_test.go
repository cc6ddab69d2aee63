/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signer_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/hyperledger/aries-framework-go/pkg/doc/jose"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/wallet-client/pkg/signer"
)

func TestJWSSigner(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	s := signer.NewJWSSigner("did:example:holder#key-1", "EdDSA", &ed25519Signer{key: priv})

	sig, err := s.Sign([]byte("test data"))
	require.NoError(t, err)
	require.True(t, ed25519.Verify(pub, []byte("test data"), sig))

	kid, ok := s.Headers().KeyID()
	require.True(t, ok)
	require.Equal(t, "did:example:holder#key-1", kid)

	alg, ok := s.Headers().Algorithm()
	require.True(t, ok)
	require.Equal(t, "EdDSA", alg)
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

func (s *ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.key, data), nil
}

func (s *ed25519Signer) Alg() string {
	return "EdDSA"
}

var _ jose.Signer = (*signer.JWSSigner)(nil)
