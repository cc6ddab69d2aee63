/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package oidc4vp implements the wallet side of the OIDC4VP presentation flow:
// fetching and verifying the verifier's signed request object, querying the
// wallet for matching credentials, and submitting signed ID and VP tokens.
package oidc4vp

//go:generate mockgen -destination oidc4vp_interaction_mocks_test.go -self_package mocks -package oidc4vp_test -source=oidc4vp_interaction.go -mock_names didResolver=MockDIDResolver,credentialQuerier=MockCredentialQuerier

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/did"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jose"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jwt"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	vdrapi "github.com/hyperledger/aries-framework-go/pkg/framework/aries/api/vdr"
	"github.com/hyperledger/aries-framework-go/pkg/wallet"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/wallet-client/internal/logfields"
	"github.com/trustbloc/wallet-client/pkg/signer"
)

var logger = log.New("oidc4vp-interaction")

const selfIssuedIssuer = "https://self-issued.me/v2/openid-vc"

type didResolver interface {
	Resolve(did string, opts ...vdrapi.DIDMethodOption) (*did.DocResolution, error)
}

type credentialQuerier interface {
	Query(authToken string, params *wallet.QueryParams) ([]*verifiable.Presentation, error)
}

// Config holds the dependencies of Interaction. DIDResolver, CredentialQuerier
// and Signer are required; the signer has no default.
type Config struct {
	HTTPClient        *http.Client
	DIDResolver       didResolver
	CredentialQuerier credentialQuerier
	Signer            signer.SignerAlgorithm
}

// Interaction is a presentation flow engine. It keeps no per-interaction state:
// the correlation values travel through the PresentationContext returned by
// InitiatePresentation.
type Interaction struct {
	httpClient *http.Client
	resolver   didResolver
	querier    credentialQuerier
	signer     signer.SignerAlgorithm
}

// NewInteraction returns a new presentation flow engine.
func NewInteraction(config *Config) (*Interaction, error) {
	if config.DIDResolver == nil {
		return nil, errors.New("did resolver is required")
	}

	if config.CredentialQuerier == nil {
		return nil, errors.New("credential querier is required")
	}

	if config.Signer == nil {
		return nil, errors.New("signer is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Interaction{
		httpClient: httpClient,
		resolver:   config.DIDResolver,
		querier:    config.CredentialQuerier,
		signer:     config.Signer,
	}, nil
}

// InitiatePresentation fetches the request object referenced by the
// authorization request deep link, verifies its signature against the
// verifier's resolved key, and queries the wallet with the embedded
// presentation definition. The returned context must be passed to
// SubmitPresentation.
func (i *Interaction) InitiatePresentation(ctx context.Context, authToken,
	requestURL string) (*PresentationContext, error) {
	parsed, err := url.Parse(requestURL)
	if err != nil {
		return nil, fmt.Errorf("parse request url: %w", err)
	}

	requestURI := parsed.Query().Get("request_uri")
	if requestURI == "" {
		return nil, fmt.Errorf("%w: missing request_uri parameter", ErrInvalidRequestURL)
	}

	logger.Debug("fetching request object", logfields.WithRequestURI(requestURI))

	rawRequestObject, err := i.fetchRequestObject(ctx, requestURI)
	if err != nil {
		return nil, err
	}

	requestObject, err := i.verifyRequestObject(rawRequestObject)
	if err != nil {
		return nil, err
	}

	definition := requestObject.Claims.VPToken.PresentationDefinition
	if definition == nil {
		return nil, errors.New("request object has no presentation definition")
	}

	definitionBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal presentation definition: %w", err)
	}

	results, err := i.querier.Query(authToken, &wallet.QueryParams{
		Type:  "PresentationExchange",
		Query: []json.RawMessage{definitionBytes},
	})
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}

	logger.Debug("presentation initiated",
		logfields.WithPresDefID(definition.ID),
		logfields.WithRedirectURI(requestObject.RedirectURI),
	)

	return &PresentationContext{
		ClientID:     requestObject.ClientID,
		Nonce:        requestObject.Nonce,
		RedirectURI:  requestObject.RedirectURI,
		QueryResults: results,
	}, nil
}

// SubmitPresentation builds the signed ID and VP tokens for the credentials the
// user selected and posts them to the verifier's redirect URI.
func (i *Interaction) SubmitPresentation(ctx context.Context, presCtx *PresentationContext,
	request *SubmitRequest) error {
	if err := validateSubmitRequest(request); err != nil {
		return err
	}

	signerDID := strings.Split(request.KID, "#")[0]
	now := time.Now().Unix()

	first := gjson.GetBytes(request.Presentation, "0")

	idToken := &IDTokenClaims{
		VPToken: IDTokenVPToken{
			PresentationSubmission: json.RawMessage(first.Get("presentation_submission").Raw),
		},
		Nonce: presCtx.Nonce,
		Exp:   request.Expiry.Unix(),
		Iss:   selfIssuedIssuer,
		Aud:   presCtx.ClientID,
		Sub:   signerDID,
		Nbf:   now,
		Iat:   now,
		Jti:   uuid.NewString(),
	}

	vp, err := sjson.DeleteBytes([]byte(first.Raw), "presentation_submission")
	if err != nil {
		return fmt.Errorf("strip presentation submission: %w", err)
	}

	vpToken := &VPTokenClaims{
		VP:    vp,
		Nonce: presCtx.Nonce,
		Exp:   request.Expiry.Unix(),
		Iss:   signerDID,
		Aud:   presCtx.ClientID,
		Nbf:   now,
		Iat:   now,
		Jti:   uuid.NewString(),
	}

	jwsSigner := signer.NewJWSSigner(request.KID, request.Alg, i.signer)

	idTokenJWS, err := signToken(idToken, jwsSigner)
	if err != nil {
		return fmt.Errorf("sign id_token: %w", err)
	}

	vpTokenJWS, err := signToken(vpToken, jwsSigner)
	if err != nil {
		return fmt.Errorf("sign vp_token: %w", err)
	}

	logger.Debug("submitting authorized response",
		logfields.WithRedirectURI(presCtx.RedirectURI),
		logfields.WithKeyID(request.KID),
	)

	return i.sendAuthorizedResponse(ctx, presCtx.RedirectURI, url.Values{
		"id_token": {idTokenJWS},
		"vp_token": {vpTokenJWS},
	})
}

func (i *Interaction) fetchRequestObject(ctx context.Context, requestURI string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURI, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request object request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch request object: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read request object: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch request object: status code %d with body %s", resp.StatusCode, body)
	}

	return string(body), nil
}

// verifyRequestObject parses the signed request object, verifying its signature
// against the verification method resolved from the kid header, before any of
// its claims are trusted.
func (i *Interaction) verifyRequestObject(rawRequestObject string) (*RequestObject, error) {
	_, claimsBytes, err := jwt.Parse(rawRequestObject,
		jwt.WithSignatureVerifier(jose.SignatureVerifierFunc(i.verifySignature)))
	if err != nil {
		return nil, fmt.Errorf("parse request object: %w", err)
	}

	requestObject := &RequestObject{}

	if err = json.Unmarshal(claimsBytes, requestObject); err != nil {
		return nil, fmt.Errorf("decode request object claims: %w", err)
	}

	return requestObject, nil
}

func (i *Interaction) verifySignature(headers jose.Headers, _, signingInput, signature []byte) error {
	kid, ok := headers.KeyID()
	if !ok {
		return errors.New("missing kid header")
	}

	verificationMethod, err := i.resolveVerificationMethod(kid)
	if err != nil {
		return err
	}

	var pubKey interface{} = verificationMethod.Value

	if key := verificationMethod.JSONWebKey(); key != nil {
		pubKey = key.Key
	}

	alg, _ := headers.Algorithm()

	switch alg {
	case "EdDSA":
		return verifyEdDSA(pubKey, signingInput, signature)
	case "RS256":
		return verifyRS256(pubKey, signingInput, signature)
	default:
		return fmt.Errorf("unsupported signature algorithm %q", alg)
	}
}

func verifyEdDSA(pubKey interface{}, message, signature []byte) error {
	pubKeyEdDSA, ok := pubKey.([]byte)
	if !ok {
		pubKeyEdDSA, ok = pubKey.(ed25519.PublicKey)
		if !ok {
			return errors.New("not []byte or ed25519.PublicKey public key")
		}
	}

	if l := len(pubKeyEdDSA); l != ed25519.PublicKeySize {
		return errors.New("bad ed25519 public key length")
	}

	if ok := ed25519.Verify(pubKeyEdDSA, message, signature); !ok {
		return errors.New("signature doesn't match")
	}

	return nil
}

func verifyRS256(pubKey interface{}, message, signature []byte) error {
	pubKeyRSA, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return errors.New("not *rsa.PublicKey public key")
	}

	hashed := sha256.Sum256(message)

	return rsa.VerifyPKCS1v15(pubKeyRSA, crypto.SHA256, hashed[:], signature)
}

func (i *Interaction) resolveVerificationMethod(kid string) (*did.VerificationMethod, error) {
	signerDID := strings.Split(kid, "#")[0]

	resolution, err := i.resolver.Resolve(signerDID)
	if err != nil {
		return nil, fmt.Errorf("resolve did %s: %w", signerDID, err)
	}

	for idx := range resolution.DIDDocument.VerificationMethod {
		method := &resolution.DIDDocument.VerificationMethod[idx]

		if method.ID == kid || signerDID+method.ID == kid {
			return method, nil
		}
	}

	return nil, fmt.Errorf("verification method %s not found in did document", kid)
}

func (i *Interaction) sendAuthorizedResponse(ctx context.Context, redirectURI string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, redirectURI,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create submission request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("%w: status code %d with body %s", ErrSubmission, resp.StatusCode, body)
	}

	return nil
}

func validateSubmitRequest(request *SubmitRequest) error {
	if request.KID == "" {
		return errors.New("kid is required")
	}

	if request.Expiry.IsZero() {
		return errors.New("expiry is required")
	}

	presentation := gjson.ParseBytes(request.Presentation)
	if !presentation.IsArray() || len(presentation.Array()) == 0 {
		return errors.New("presentation is required")
	}

	first := presentation.Array()[0]

	for _, field := range []string{"presentation_submission", "type", "verifiableCredential"} {
		if !first.Get(field).Exists() {
			return fmt.Errorf("presentation must contain %s", field)
		}
	}

	return nil
}

func signToken(claims interface{}, jwsSigner jose.Signer) (string, error) {
	token, err := jwt.NewSigned(claims, map[string]interface{}{jose.HeaderType: "JWT"}, jwsSigner)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	serialized, err := token.Serialize(false)
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}

	return serialized, nil
}
