/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package oidc4vp

import "errors"

var (
	// ErrInvalidRequestURL indicates an authorization request URL without a request_uri parameter.
	ErrInvalidRequestURL = errors.New("invalid request url")

	// ErrSubmission indicates a failure to deliver the authorized response to the verifier.
	ErrSubmission = errors.New("presentation submission failed")
)
