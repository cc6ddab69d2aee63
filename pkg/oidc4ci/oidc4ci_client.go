/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package oidc4ci implements the wallet side of the OIDC4CI credential issuance
// flow: pushed-authorization-request and pre-authorized-code grants, token
// exchange, deferred issuance polling, and credential retrieval with a
// proof-of-possession JWT.
package oidc4ci

//go:generate mockgen -destination oidc4ci_client_mocks_test.go -self_package mocks -package oidc4ci_test -source=oidc4ci_client.go -mock_names metadataService=MockMetadataService

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jose"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jwt"
	"github.com/trustbloc/logutil-go/pkg/log"
	"golang.org/x/oauth2"

	"github.com/trustbloc/wallet-client/internal/logfields"
	"github.com/trustbloc/wallet-client/pkg/wellknown"
)

var logger = log.New("oidc4ci-client")

const (
	preAuthorizedCodeGrantType = "urn:ietf:params:oauth:grant-type:pre-authorized_code"
	proofJWTType               = "openid4vci-proof+jwt"
	defaultPollInterval        = 5 * time.Second
)

var errAuthorizationPending = errors.New("authorization pending")

type metadataService interface {
	GetOpenIDConfiguration(ctx context.Context, issuerURI string) (*wellknown.OpenIDConfiguration, error)
}

// Config holds the dependencies of Client. ProofSigner is required and has no
// default.
type Config struct {
	HTTPClient      *http.Client
	MetadataService metadataService
	ClientID        string
	RedirectURI     string
	UserDID         string
	ProofSigner     jose.Signer
}

// Client is an issuance flow engine. It keeps no per-flow state: the state that
// must survive the authorization redirect travels through the opaque client
// state returned by Authorize.
type Client struct {
	httpClient  *http.Client
	metadata    metadataService
	clientID    string
	redirectURI string
	userDID     string
	proofSigner jose.Signer
}

// NewClient returns a new issuance flow client.
func NewClient(config *Config) (*Client, error) {
	if config.ProofSigner == nil {
		return nil, errors.New("proof signer is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	metadata := config.MetadataService
	if metadata == nil {
		metadata = &wellknown.Service{HTTPClient: httpClient}
	}

	return &Client{
		httpClient:  httpClient,
		metadata:    metadata,
		clientID:    config.ClientID,
		redirectURI: config.RedirectURI,
		userDID:     config.UserDID,
		proofSigner: config.ProofSigner,
	}, nil
}

// ParseIssuanceRequest parses an initiate issuance URL received from the issuer
// out of band.
func ParseIssuanceRequest(initiateIssuanceURL string) (*IssuanceRequest, error) {
	u, err := url.Parse(initiateIssuanceURL)
	if err != nil {
		return nil, fmt.Errorf("parse initiate issuance url: %w", err)
	}

	query := u.Query()

	issuer := query.Get("issuer")
	if issuer == "" {
		return nil, errors.New("missing issuer in initiate issuance url")
	}

	request := &IssuanceRequest{
		Issuer:            issuer,
		CredentialType:    query.Get("credential_type"),
		OpState:           query.Get("op_state"),
		PreAuthorizedCode: query.Get("pre-authorized_code"),
	}

	if v := query.Get("user_pin_required"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse user_pin_required: %w", err)
		}

		request.UserPINRequired = required
	}

	return request, nil
}

type authorizeOpts struct {
	userPIN string
}

// AuthorizeOpt configures Authorize.
type AuthorizeOpt func(opts *authorizeOpts)

// WithUserPIN supplies the user PIN for a pre-authorized code grant.
func WithUserPIN(pin string) AuthorizeOpt {
	return func(opts *authorizeOpts) {
		opts.userPIN = pin
	}
}

// Authorize starts an issuance flow. A request carrying a pre-authorized code
// retrieves the credential directly; otherwise a pushed authorization request
// is submitted and the caller must redirect the user to the returned URI,
// keeping ClientState until Callback.
func (c *Client) Authorize(ctx context.Context, request *IssuanceRequest, opts ...AuthorizeOpt) (*AuthorizeResult, error) {
	options := &authorizeOpts{}

	for _, opt := range opts {
		opt(options)
	}

	logger.Debug("authorizing issuance",
		logfields.WithIssuerURI(request.Issuer),
		logfields.WithCredentialType(request.CredentialType),
	)

	if request.PreAuthorizedCode != "" {
		return c.authorizePreAuthorized(ctx, request, options.userPIN)
	}

	return c.authorizeWithCode(ctx, request)
}

func (c *Client) authorizePreAuthorized(ctx context.Context, request *IssuanceRequest,
	userPIN string) (*AuthorizeResult, error) {
	if request.UserPINRequired && userPIN == "" {
		return nil, ErrMissingPIN
	}

	metadata, err := c.metadata.GetOpenIDConfiguration(ctx, request.Issuer)
	if err != nil {
		return nil, fmt.Errorf("get issuer metadata: %w", err)
	}

	token, err := c.preAuthorizedToken(ctx, metadata.TokenEndpoint, request.PreAuthorizedCode, userPIN)
	if err != nil {
		return nil, err
	}

	credential, err := c.getCredential(ctx, token, metadata, request.CredentialType)
	if err != nil {
		return nil, err
	}

	return &AuthorizeResult{CredentialResponse: credential}, nil
}

func (c *Client) authorizeWithCode(ctx context.Context, request *IssuanceRequest) (*AuthorizeResult, error) {
	metadata, err := c.metadata.GetOpenIDConfiguration(ctx, request.Issuer)
	if err != nil {
		return nil, fmt.Errorf("get issuer metadata: %w", err)
	}

	oauthState := uuid.NewString()

	details, err := json.Marshal([]authorizationDetails{
		{
			Type:           "openid_credential",
			CredentialType: request.CredentialType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal authorization details: %w", err)
	}

	par, err := c.pushAuthorizationRequest(ctx, metadata.PushedAuthorizationRequestEndpoint, url.Values{
		"response_type":         {"code"},
		"client_id":             {c.clientID},
		"redirect_uri":          {c.redirectURI},
		"state":                 {oauthState},
		"op_state":              {request.OpState},
		"authorization_details": {string(details)},
	})
	if err != nil {
		return nil, err
	}

	redirectURL, err := url.Parse(metadata.AuthorizationEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse authorization endpoint: %w", err)
	}

	query := redirectURL.Query()
	query.Set("client_id", c.clientID)
	query.Set("request_uri", par.RequestURI)
	redirectURL.RawQuery = query.Encode()

	state := &TransactionState{
		CredentialType: request.CredentialType,
		ClientID:       c.clientID,
		IssuerMetadata: metadata,
		OAuthState:     oauthState,
	}

	clientState, err := state.Marshal()
	if err != nil {
		return nil, err
	}

	logger.Debug("authorization request pushed",
		logfields.WithRequestURI(par.RequestURI),
		logfields.WithRedirectURI(redirectURL.String()),
	)

	return &AuthorizeResult{
		RedirectURI: redirectURL.String(),
		ClientState: clientState,
	}, nil
}

// Callback completes an authorization code grant after the issuer redirects the
// user back to the wallet. The clientState must be the value returned by
// Authorize for this flow.
func (c *Client) Callback(ctx context.Context, callbackURI, clientState string) (*CredentialResponse, error) {
	parsed, err := url.Parse(callbackURI)
	if err != nil {
		return nil, fmt.Errorf("parse callback uri: %w", err)
	}

	code := parsed.Query().Get("code")
	if code == "" {
		return nil, ErrMissingAuthorizationCode
	}

	issuerState := parsed.Query().Get("state")
	if issuerState == "" {
		return nil, ErrMissingState
	}

	if clientState == "" {
		return nil, ErrMissingClientState
	}

	state, err := ParseTransactionState(clientState)
	if err != nil {
		return nil, err
	}

	if issuerState != state.OAuthState {
		return nil, ErrStateMismatch
	}

	oauthClient := &oauth2.Config{
		ClientID:    state.ClientID,
		RedirectURL: c.redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  state.IssuerMetadata.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	token, err := c.exchangeCode(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), oauthClient, code)
	if err != nil {
		return nil, err
	}

	return c.getCredential(ctx, token, state.IssuerMetadata, state.CredentialType)
}

func (c *Client) pushAuthorizationRequest(ctx context.Context, endpoint string,
	form url.Values) (*parResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create par request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push authorization request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("push authorization request: status code %d", resp.StatusCode)
	}

	var par parResponse

	if err = json.NewDecoder(resp.Body).Decode(&par); err != nil {
		return nil, fmt.Errorf("decode par response: %w", err)
	}

	return &par, nil
}

func (c *Client) preAuthorizedToken(ctx context.Context, endpoint, code, userPIN string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":          {preAuthorizedCodeGrantType},
		"pre-authorized_code": {code},
	}

	if userPIN != "" {
		form.Add("user_pin", userPIN)
	}

	fetch := func() (*TokenResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("create token request: %w", err)
		}

		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("get access token: %w", err)
		}

		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read token response: %w", err)
		}

		var token TokenResponse

		if err = json.Unmarshal(body, &token); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}

		if !tokenPending(&token) && resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("get access token: status code %d: %s", resp.StatusCode, body)
		}

		return &token, nil
	}

	return c.waitForToken(ctx, fetch)
}

func (c *Client) exchangeCode(ctx context.Context, oauthClient *oauth2.Config, code string) (*TokenResponse, error) {
	fetch := func() (*TokenResponse, error) {
		token, err := oauthClient.Exchange(ctx, code)
		if err != nil {
			var retrieveErr *oauth2.RetrieveError

			if errors.As(err, &retrieveErr) &&
				strings.Contains(string(retrieveErr.Body), "authorization_pending") {
				pending := &TokenResponse{}
				_ = json.Unmarshal(retrieveErr.Body, pending)
				pending.AuthorizationPending = true

				return pending, nil
			}

			return nil, fmt.Errorf("exchange code for token: %w", err)
		}

		resp := &TokenResponse{
			AccessToken: token.AccessToken,
			TokenType:   token.TokenType,
		}

		if nonce, ok := token.Extra("c_nonce").(string); ok {
			resp.CNonce = nonce
		}

		return resp, nil
	}

	return c.waitForToken(ctx, fetch)
}

// waitForToken returns the fetched token, polling the token endpoint while the
// issuer reports deferred issuance. Polling stops when ctx is done.
func (c *Client) waitForToken(ctx context.Context, fetch func() (*TokenResponse, error)) (*TokenResponse, error) {
	token, err := fetch()
	if err != nil {
		return nil, err
	}

	if !tokenPending(token) {
		return token, nil
	}

	interval := defaultPollInterval
	if token.Interval > 0 {
		interval = time.Duration(token.Interval) * time.Second
	}

	logger.Info("credential issuance deferred, polling token endpoint", logfields.WithSleep(interval))

	operation := func() error {
		token, err = fetch()
		if err != nil {
			return backoff.Permanent(err)
		}

		if tokenPending(token) {
			return errAuthorizationPending
		}

		return nil
	}

	if err = backoff.Retry(operation, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)); err != nil {
		return nil, fmt.Errorf("wait for deferred issuance: %w", err)
	}

	return token, nil
}

func tokenPending(token *TokenResponse) bool {
	return token.AuthorizationPending || token.Error == "authorization_pending"
}

func (c *Client) getCredential(ctx context.Context, token *TokenResponse,
	metadata *wellknown.OpenIDConfiguration, credentialType string) (*CredentialResponse, error) {
	claims := &JWTProofClaims{
		Issuer:   c.clientID,
		Audience: metadata.Issuer,
		IssuedAt: time.Now().Unix(),
		Nonce:    token.CNonce,
	}

	signedJWT, err := jwt.NewSigned(claims, map[string]interface{}{jose.HeaderType: proofJWTType}, c.proofSigner)
	if err != nil {
		return nil, fmt.Errorf("create signed jwt: %w", err)
	}

	jws, err := signedJWT.Serialize(false)
	if err != nil {
		return nil, fmt.Errorf("serialize signed jwt: %w", err)
	}

	body, err := json.Marshal(&CredentialRequest{
		Type: credentialType,
		DID:  c.userDID,
		Proof: JWTProof{
			ProofType: "jwt",
			JWT:       jws,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal credential request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, metadata.CredentialEndpoint,
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create credential request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIssuerCommunication, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf("%w: status %s: %s", ErrIssuerCommunication, resp.Status, respBody)
	}

	var credential CredentialResponse

	if err = json.NewDecoder(resp.Body).Decode(&credential); err != nil {
		return nil, fmt.Errorf("decode credential response: %w", err)
	}

	logger.Debug("credential retrieved",
		logfields.WithEndpoint(metadata.CredentialEndpoint),
		logfields.WithCredentialType(credentialType),
	)

	return &credential, nil
}
