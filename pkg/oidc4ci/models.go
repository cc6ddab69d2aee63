/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4ci

import "encoding/json"

// IssuanceRequest is received from the issuer out of band to start an issuance flow.
type IssuanceRequest struct {
	Issuer            string
	CredentialType    string
	UserPINRequired   bool
	OpState           string
	PreAuthorizedCode string
}

// AuthorizeResult is the outcome of Authorize. Exactly one branch is set: either
// the credential was retrieved directly (pre-authorized code grant), or the caller
// must redirect the user and keep ClientState until the callback.
type AuthorizeResult struct {
	RedirectURI        string
	ClientState        string
	CredentialResponse *CredentialResponse
}

// TokenResponse is the issuer's token endpoint response.
type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	TokenType            string `json:"token_type"`
	ExpiresIn            int    `json:"expires_in,omitempty"`
	CNonce               string `json:"c_nonce,omitempty"`
	AuthorizationPending bool   `json:"authorization_pending,omitempty"`
	Interval             int    `json:"interval,omitempty"`
	Error                string `json:"error,omitempty"`
}

// CredentialResponse is the issuer's credential endpoint response.
type CredentialResponse struct {
	Format     string          `json:"format"`
	Credential json.RawMessage `json:"credential"`
}

// JWTProofClaims are the claims of the proof-of-possession JWT sent with a
// credential request.
type JWTProofClaims struct {
	Issuer   string `json:"iss,omitempty"`
	Audience string `json:"aud,omitempty"`
	IssuedAt int64  `json:"iat,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
}

// CredentialRequest is sent to the issuer's credential endpoint.
type CredentialRequest struct {
	Format string   `json:"format,omitempty"`
	Type   string   `json:"type"`
	DID    string   `json:"did"`
	Proof  JWTProof `json:"proof"`
}

// JWTProof wraps the proof-of-possession JWT.
type JWTProof struct {
	ProofType string `json:"proof_type"`
	JWT       string `json:"jwt"`
}

type parResponse struct {
	RequestURI string `json:"request_uri"`
	ExpiresIn  int    `json:"expires_in,omitempty"`
}

type authorizationDetails struct {
	Type           string `json:"type"`
	CredentialType string `json:"credential_type"`
}
