/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log Fields.
const (
	FieldCredentialType = "credentialType"
	FieldEndpoint       = "endpoint"
	FieldEvent          = "event"
	FieldIDToken        = "idToken"
	FieldIssuerURI      = "issuerURI"
	FieldKeyID          = "keyID"
	FieldPresDefID      = "presDefID"
	FieldRedirectURI    = "redirectURI"
	FieldRequestURI     = "requestURI"
	FieldSleep          = "sleep"
	FieldState          = "state"
	FieldVPToken        = "vpToken"
	FieldClaimKeys      = "claimKeys"
)

// WithCredentialType sets the CredentialType field.
func WithCredentialType(credentialType string) zap.Field {
	return zap.String(FieldCredentialType, credentialType)
}

// WithEndpoint sets the Endpoint field.
func WithEndpoint(endpoint string) zap.Field {
	return zap.String(FieldEndpoint, endpoint)
}

// WithEvent sets the Event field.
func WithEvent(event interface{}) zap.Field {
	return zap.Inline(NewObjectMarshaller(FieldEvent, event))
}

// WithIDToken sets the id token field.
func WithIDToken(idToken string) zap.Field {
	return zap.String(FieldIDToken, idToken)
}

// WithIssuerURI sets the IssuerURI field.
func WithIssuerURI(issuerURI string) zap.Field {
	return zap.String(FieldIssuerURI, issuerURI)
}

// WithKeyID sets the KeyID field.
func WithKeyID(keyID string) zap.Field {
	return zap.String(FieldKeyID, keyID)
}

// WithPresDefID sets the PresDefID (presentation definition ID) field.
func WithPresDefID(presDefID string) zap.Field {
	return zap.String(FieldPresDefID, presDefID)
}

// WithRedirectURI sets the RedirectURI field.
func WithRedirectURI(redirectURI string) zap.Field {
	return zap.String(FieldRedirectURI, redirectURI)
}

// WithRequestURI sets the RequestURI field.
func WithRequestURI(requestURI string) zap.Field {
	return zap.String(FieldRequestURI, requestURI)
}

// WithSleep sets the sleep field.
func WithSleep(sleep time.Duration) zap.Field {
	return zap.Duration(FieldSleep, sleep)
}

// WithState sets the State field.
func WithState(state string) zap.Field {
	return zap.String(FieldState, state)
}

// WithVPToken sets the vp token field.
func WithVPToken(vpToken string) zap.Field {
	return zap.String(FieldVPToken, vpToken)
}

// WithClaimKeys sets the Claim fields.
func WithClaimKeys(claimKeys []string) zap.Field {
	return zap.Strings(FieldClaimKeys, claimKeys)
}

// ObjectMarshaller uses reflection to marshal an object's fields.
type ObjectMarshaller struct {
	key string
	obj interface{}
}

// NewObjectMarshaller returns a new ObjectMarshaller.
func NewObjectMarshaller(key string, obj interface{}) *ObjectMarshaller {
	return &ObjectMarshaller{key: key, obj: obj}
}

// MarshalLogObject marshals the object's fields.
func (m *ObjectMarshaller) MarshalLogObject(e zapcore.ObjectEncoder) error {
	return e.AddReflected(m.key, m.obj)
}
