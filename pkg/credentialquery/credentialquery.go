/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package credentialquery reshapes Presentation-Exchange query results into
// descriptor-grouped credential sets and rewrites a presentation's descriptor
// map after the user picks one credential per descriptor.
package credentialquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// PresentationExchangeQueryType identifies a Presentation-Exchange query.
const PresentationExchangeQueryType = "PresentationExchange"

// Query is a credential query as submitted by a wallet caller.
type Query struct {
	Type            string                             `json:"type"`
	CredentialQuery []*presexch.PresentationDefinition `json:"credentialQuery"`
}

// Group holds the credentials matched for one input descriptor.
type Group struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	Purpose     string            `json:"purpose,omitempty"`
	Format      string            `json:"format,omitempty"`
	Credentials []json.RawMessage `json:"credentials"`
}

// Normalize groups the credentials of a query result presentation by input
// descriptor ID, in descriptor-map encounter order. A presentation without a
// presentation_submission did not come from a Presentation-Exchange query; in
// that case each credential gets its own group with a generated ID.
func Normalize(queries []*Query, presentation json.RawMessage) ([]*Group, error) {
	submissionRaw := gjson.GetBytes(presentation, "presentation_submission")
	if !submissionRaw.Exists() {
		return syntheticGroups(presentation), nil
	}

	var submission presexch.PresentationSubmission

	if err := json.Unmarshal([]byte(submissionRaw.Raw), &submission); err != nil {
		return nil, fmt.Errorf("decode presentation submission: %w", err)
	}

	definition := findDefinition(queries, submission.DefinitionID)
	if definition == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, submission.DefinitionID)
	}

	var typelessPresentation interface{}

	if err := json.Unmarshal(presentation, &typelessPresentation); err != nil {
		return nil, fmt.Errorf("decode presentation: %w", err)
	}

	builder := gval.Full(jsonpath.PlaceholderExtension())

	groupsByID := make(map[string]*Group)

	var groups []*Group

	for _, mapping := range submission.DescriptorMap {
		credential, err := selectByPath(builder, typelessPresentation, mapping.Path)
		if err != nil {
			return nil, err
		}

		if group, ok := groupsByID[mapping.ID]; ok {
			group.Credentials = append(group.Credentials, credential)

			continue
		}

		descriptor, found := findInputDescriptor(definition, mapping.ID)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrInputDescriptorNotFound, mapping.ID)
		}

		group := &Group{
			ID:          descriptor.ID,
			Name:        descriptor.Name,
			Purpose:     descriptor.Purpose,
			Format:      mapping.Format,
			Credentials: []json.RawMessage{credential},
		}

		groupsByID[mapping.ID] = group
		groups = append(groups, group)
	}

	return groups, nil
}

// Reselect rebuilds the presentation's credential array and descriptor map so
// that only the selected credential remains for each descriptor. Selections map
// descriptor ID to the chosen credential's id field. A presentation without a
// presentation_submission is returned unchanged.
func Reselect(presentation json.RawMessage, selections map[string]string) (json.RawMessage, error) {
	if !gjson.GetBytes(presentation, "presentation_submission").Exists() {
		return presentation, nil
	}

	var descriptorMap []*presexch.InputDescriptorMapping

	mapRaw := gjson.GetBytes(presentation, "presentation_submission.descriptor_map")

	if err := json.Unmarshal([]byte(mapRaw.Raw), &descriptorMap); err != nil {
		return nil, fmt.Errorf("decode descriptor map: %w", err)
	}

	var typelessPresentation interface{}

	if err := json.Unmarshal(presentation, &typelessPresentation); err != nil {
		return nil, fmt.Errorf("decode presentation: %w", err)
	}

	builder := gval.Full(jsonpath.PlaceholderExtension())

	credentials := []json.RawMessage{}
	kept := []*presexch.InputDescriptorMapping{}

	for _, mapping := range descriptorMap {
		credential, err := selectByPath(builder, typelessPresentation, mapping.Path)
		if err != nil {
			return nil, err
		}

		credentialID := gjson.GetBytes(credential, "id").String()

		if credentialID == "" || selections[mapping.ID] != credentialID {
			continue
		}

		credentials = append(credentials, credential)

		mapping.Path = fmt.Sprintf("$.verifiableCredential[%d]", len(credentials)-1)
		kept = append(kept, mapping)
	}

	updated, err := sjson.SetBytes(presentation, "verifiableCredential", credentials)
	if err != nil {
		return nil, fmt.Errorf("rewrite credentials: %w", err)
	}

	updated, err = sjson.SetBytes(updated, "presentation_submission.descriptor_map", kept)
	if err != nil {
		return nil, fmt.Errorf("rewrite descriptor map: %w", err)
	}

	return updated, nil
}

func syntheticGroups(presentation json.RawMessage) []*Group {
	var groups []*Group

	for _, credential := range gjson.GetBytes(presentation, "verifiableCredential").Array() {
		groups = append(groups, &Group{
			ID:          uuid.NewString(),
			Credentials: []json.RawMessage{json.RawMessage(credential.Raw)},
		})
	}

	return groups
}

func findDefinition(queries []*Query, definitionID string) *presexch.PresentationDefinition {
	for _, query := range queries {
		if query.Type != PresentationExchangeQueryType {
			continue
		}

		definition, found := lo.Find(query.CredentialQuery,
			func(definition *presexch.PresentationDefinition) bool {
				return definition.ID == definitionID
			})
		if found {
			return definition
		}
	}

	return nil
}

func findInputDescriptor(definition *presexch.PresentationDefinition,
	descriptorID string) (*presexch.InputDescriptor, bool) {
	return lo.Find(definition.InputDescriptors, func(descriptor *presexch.InputDescriptor) bool {
		return descriptor.ID == descriptorID
	})
}

func selectByPath(builder gval.Language, presentation interface{}, jsonPath string) (json.RawMessage, error) {
	path, err := builder.NewEvaluable(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("build json path evaluator: %w", err)
	}

	credential, err := path(context.TODO(), presentation)
	if err != nil {
		return nil, fmt.Errorf("evaluate json path [%s]: %w", jsonPath, err)
	}

	credentialBytes, err := json.Marshal(credential)
	if err != nil {
		return nil, fmt.Errorf("marshal credential: %w", err)
	}

	return credentialBytes, nil
}
