/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4ci

import "errors"

var (
	// ErrMissingPIN indicates that the issuer requires a user PIN but none was supplied.
	ErrMissingPIN = errors.New("missing user pin")

	// ErrMissingAuthorizationCode indicates a callback URI without an authorization code.
	ErrMissingAuthorizationCode = errors.New("missing authorization code")

	// ErrMissingState indicates a callback URI without a state parameter.
	ErrMissingState = errors.New("missing state")

	// ErrMissingClientState indicates that no client state was supplied to the callback.
	ErrMissingClientState = errors.New("missing client state")

	// ErrMalformedState indicates client state that does not decode to a valid transaction state.
	ErrMalformedState = errors.New("malformed transaction state")

	// ErrStateMismatch indicates that the state echoed by the issuer does not match
	// the state embedded in the client's transaction state.
	ErrStateMismatch = errors.New("transaction state mismatch")

	// ErrIssuerCommunication indicates a transport failure or issuer rejection
	// during credential retrieval.
	ErrIssuerCommunication = errors.New("issuer communication failed")
)
