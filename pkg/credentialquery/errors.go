/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credentialquery

import "errors"

var (
	// ErrDefinitionNotFound indicates that the submission references a presentation
	// definition that the supplied queries do not declare.
	ErrDefinitionNotFound = errors.New("presentation definition not found")

	// ErrInputDescriptorNotFound indicates that the submission references an input
	// descriptor that the matched presentation definition does not declare.
	ErrInputDescriptorNotFound = errors.New("input descriptor not found")
)
