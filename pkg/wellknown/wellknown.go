/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wellknown discovers the issuer's OpenID configuration.
package wellknown

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/wallet-client/internal/logfields"
)

var logger = log.New("wellknown")

// OpenIDConfiguration represents an issuer's OpenID configuration.
type OpenIDConfiguration struct {
	AuthorizationEndpoint              string   `json:"authorization_endpoint"`
	PushedAuthorizationRequestEndpoint string   `json:"pushed_authorization_request_endpoint"`
	TokenEndpoint                      string   `json:"token_endpoint"`
	CredentialEndpoint                 string   `json:"credential_endpoint"`
	Issuer                             string   `json:"issuer"`
	ResponseTypesSupported             []string `json:"response_types_supported"`
	ScopesSupported                    []string `json:"scopes_supported"`
	GrantTypesSupported                []string `json:"grant_types_supported"`
}

// Service fetches well-known OpenID configurations.
type Service struct {
	HTTPClient *http.Client
}

// GetOpenIDConfiguration returns the issuer's OpenID configuration.
func (s *Service) GetOpenIDConfiguration(ctx context.Context, issuerURI string) (*OpenIDConfiguration, error) {
	logger.Debug("getting openid configuration", logfields.WithIssuerURI(issuerURI))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		issuerURI+"/.well-known/openid-configuration", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create well-known request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get issuer well-known: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get issuer well-known: status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read issuer well-known body: %w", err)
	}

	var config OpenIDConfiguration

	if err = json.Unmarshal(body, &config); err != nil {
		return nil, fmt.Errorf("decode issuer well-known: %w", err)
	}

	return &config, nil
}
