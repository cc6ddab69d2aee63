/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import (
	"encoding/json"
	"time"

	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
)

// RequestObject is the verifier's signed authorization request.
type RequestObject struct {
	JTI          string                    `json:"jti"`
	IAT          int64                     `json:"iat"`
	ResponseType string                    `json:"response_type"`
	ResponseMode string                    `json:"response_mode"`
	Scope        string                    `json:"scope"`
	Nonce        string                    `json:"nonce"`
	ClientID     string                    `json:"client_id"`
	RedirectURI  string                    `json:"redirect_uri"`
	State        string                    `json:"state"`
	Exp          int64                     `json:"exp"`
	Registration RequestObjectRegistration `json:"registration"`
	Claims       RequestObjectClaims       `json:"claims"`
}

// RequestObjectRegistration holds the verifier's client metadata.
type RequestObjectRegistration struct {
	ClientName                  string           `json:"client_name"`
	SubjectSyntaxTypesSupported []string         `json:"subject_syntax_types_supported"`
	VPFormats                   *presexch.Format `json:"vp_formats"`
	ClientPurpose               string           `json:"client_purpose"`
}

// RequestObjectClaims carries the requested vp_token.
type RequestObjectClaims struct {
	VPToken VPToken `json:"vp_token"`
}

// VPToken carries the presentation definition of an authorization request.
type VPToken struct {
	PresentationDefinition *presexch.PresentationDefinition `json:"presentation_definition"`
}

// PresentationContext correlates InitiatePresentation with SubmitPresentation.
// It is returned by the initiate step and must be passed back to submit,
// making concurrent presentation interactions safe by construction.
type PresentationContext struct {
	ClientID     string
	Nonce        string
	RedirectURI  string
	QueryResults []*verifiable.Presentation
}

// SubmitRequest is the caller's input to SubmitPresentation. Presentation is a
// JSON array whose first element carries presentation_submission, type and
// verifiableCredential.
type SubmitRequest struct {
	KID          string
	Alg          string
	Expiry       time.Time
	Presentation json.RawMessage
}

// IDTokenVPToken wraps the presentation submission inside the ID token.
type IDTokenVPToken struct {
	PresentationSubmission json.RawMessage `json:"presentation_submission"`
}

// IDTokenClaims are the claims of the signed ID token.
type IDTokenClaims struct {
	VPToken IDTokenVPToken `json:"_vp_token"`
	Nonce   string         `json:"nonce"`
	Exp     int64          `json:"exp"`
	Iss     string         `json:"iss"`
	Aud     string         `json:"aud"`
	Sub     string         `json:"sub"`
	Nbf     int64          `json:"nbf"`
	Iat     int64          `json:"iat"`
	Jti     string         `json:"jti"`
}

// VPTokenClaims are the claims of the signed VP token.
type VPTokenClaims struct {
	VP    json.RawMessage `json:"vp"`
	Nonce string          `json:"nonce"`
	Exp   int64           `json:"exp"`
	Iss   string          `json:"iss"`
	Aud   string          `json:"aud"`
	Nbf   int64           `json:"nbf"`
	Iat   int64           `json:"iat"`
	Jti   string          `json:"jti"`
}
