/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package credentialquery_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/hyperledger/aries-framework-go/pkg/doc/presexch"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trustbloc/wallet-client/pkg/credentialquery"
)

func TestNormalize(t *testing.T) {
	t.Run("no submission -> one synthetic group per credential", func(t *testing.T) {
		presentation := json.RawMessage(`{
			"@context": ["https://www.w3.org/2018/credentials/v1"],
			"type": "VerifiablePresentation",
			"verifiableCredential": [
				` + credentialJSON("cred-1") + `,
				` + credentialJSON("cred-2") + `,
				` + credentialJSON("cred-3") + `
			]
		}`)

		groups, err := credentialquery.Normalize(nil, presentation)
		require.NoError(t, err)
		require.Len(t, groups, 3)

		seen := map[string]struct{}{}

		for i, group := range groups {
			require.NotEmpty(t, group.ID)
			require.Len(t, group.Credentials, 1)
			require.Equal(t, fmt.Sprintf("cred-%d", i+1),
				gjson.GetBytes(group.Credentials[0], "id").String())

			_, duplicate := seen[group.ID]
			require.False(t, duplicate)

			seen[group.ID] = struct{}{}
		}
	})

	t.Run("two map entries sharing a descriptor -> one group with two credentials", func(t *testing.T) {
		queries := testQueries(t, "degree")

		presentation := presentationJSON(t, "pd-1", []string{"cred-1", "cred-2"},
			mapEntry("degree", 0), mapEntry("degree", 1))

		groups, err := credentialquery.Normalize(queries, presentation)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Equal(t, "degree", groups[0].ID)
		require.Equal(t, "Degree", groups[0].Name)
		require.Equal(t, "Prove your degree", groups[0].Purpose)
		require.Equal(t, "ldp_vp", groups[0].Format)
		require.Len(t, groups[0].Credentials, 2)
	})

	t.Run("three descriptors with credential counts [3,1,3]", func(t *testing.T) {
		queries := testQueries(t, "degree", "residency", "employment")

		presentation := presentationJSON(t, "pd-1",
			[]string{"cred-1", "cred-2", "cred-3", "cred-4", "cred-5", "cred-6", "cred-7"},
			mapEntry("degree", 0), mapEntry("degree", 1), mapEntry("degree", 2),
			mapEntry("residency", 3),
			mapEntry("employment", 4), mapEntry("employment", 5), mapEntry("employment", 6),
		)

		groups, err := credentialquery.Normalize(queries, presentation)
		require.NoError(t, err)
		require.Len(t, groups, 3)

		require.Equal(t, "degree", groups[0].ID)
		require.Len(t, groups[0].Credentials, 3)
		require.Equal(t, "residency", groups[1].ID)
		require.Len(t, groups[1].Credentials, 1)
		require.Equal(t, "employment", groups[2].ID)
		require.Len(t, groups[2].Credentials, 3)
	})

	t.Run("definition not found", func(t *testing.T) {
		queries := testQueries(t, "degree")

		presentation := presentationJSON(t, "unknown-definition", []string{"cred-1"},
			mapEntry("degree", 0))

		_, err := credentialquery.Normalize(queries, presentation)
		require.ErrorIs(t, err, credentialquery.ErrDefinitionNotFound)
	})

	t.Run("input descriptor not found", func(t *testing.T) {
		queries := testQueries(t, "degree")

		presentation := presentationJSON(t, "pd-1", []string{"cred-1"},
			mapEntry("unknown-descriptor", 0))

		_, err := credentialquery.Normalize(queries, presentation)
		require.ErrorIs(t, err, credentialquery.ErrInputDescriptorNotFound)
	})
}

func TestReselect(t *testing.T) {
	t.Run("no submission -> presentation returned unchanged", func(t *testing.T) {
		presentation := json.RawMessage(`{"verifiableCredential":[` + credentialJSON("cred-1") + `]}`)

		updated, err := credentialquery.Reselect(presentation, map[string]string{"degree": "cred-1"})
		require.NoError(t, err)
		require.Equal(t, presentation, updated)
	})

	t.Run("one credential kept per descriptor", func(t *testing.T) {
		presentation := presentationJSON(t, "pd-1",
			[]string{"cred-1", "cred-2", "cred-3", "cred-4"},
			mapEntry("degree", 0), mapEntry("degree", 1), mapEntry("degree", 2),
			mapEntry("residency", 3),
		)

		updated, err := credentialquery.Reselect(presentation, map[string]string{
			"degree":    "cred-2",
			"residency": "cred-4",
		})
		require.NoError(t, err)

		descriptorMap := gjson.GetBytes(updated, "presentation_submission.descriptor_map").Array()
		require.Len(t, descriptorMap, 2)

		credentials := gjson.GetBytes(updated, "verifiableCredential").Array()
		require.Len(t, credentials, 2)

		selections := map[string]string{
			"degree":    "cred-2",
			"residency": "cred-4",
		}

		for _, entry := range descriptorMap {
			descriptorID := entry.Get("id").String()

			resolved := gjson.GetBytes(updated,
				fmt.Sprintf("verifiableCredential.%d.id",
					pathIndex(t, entry.Get("path").String())))
			require.Equal(t, selections[descriptorID], resolved.String())
		}
	})

	t.Run("no credential selected -> empty arrays, not null", func(t *testing.T) {
		presentation := presentationJSON(t, "pd-1", []string{"cred-1"}, mapEntry("degree", 0))

		updated, err := credentialquery.Reselect(presentation, map[string]string{"degree": "cred-2"})
		require.NoError(t, err)

		credentials := gjson.GetBytes(updated, "verifiableCredential")
		require.True(t, credentials.IsArray())
		require.Empty(t, credentials.Array())

		descriptorMap := gjson.GetBytes(updated, "presentation_submission.descriptor_map")
		require.True(t, descriptorMap.IsArray())
		require.Empty(t, descriptorMap.Array())
	})

	t.Run("reselect after normalize keeps the selected credential", func(t *testing.T) {
		queries := testQueries(t, "degree")

		presentation := presentationJSON(t, "pd-1", []string{"cred-1", "cred-2"},
			mapEntry("degree", 0), mapEntry("degree", 1))

		groups, err := credentialquery.Normalize(queries, presentation)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Credentials, 2)

		updated, err := credentialquery.Reselect(presentation, map[string]string{"degree": "cred-1"})
		require.NoError(t, err)

		credentials := gjson.GetBytes(updated, "verifiableCredential").Array()
		require.Len(t, credentials, 1)
		require.Equal(t, "cred-1", credentials[0].Get("id").String())

		descriptorMap := gjson.GetBytes(updated, "presentation_submission.descriptor_map").Array()
		require.Len(t, descriptorMap, 1)
		require.Equal(t, "$.verifiableCredential[0]", descriptorMap[0].Get("path").String())
	})
}

func testQueries(t *testing.T, descriptorIDs ...string) []*credentialquery.Query {
	t.Helper()

	descriptors := make([]*presexch.InputDescriptor, len(descriptorIDs))

	names := map[string]string{
		"degree":     "Degree",
		"residency":  "Residency",
		"employment": "Employment",
	}

	purposes := map[string]string{
		"degree":     "Prove your degree",
		"residency":  "Prove your residency",
		"employment": "Prove your employment",
	}

	for i, id := range descriptorIDs {
		descriptors[i] = &presexch.InputDescriptor{
			ID:      id,
			Name:    names[id],
			Purpose: purposes[id],
		}
	}

	return []*credentialquery.Query{
		{
			Type: credentialquery.PresentationExchangeQueryType,
			CredentialQuery: []*presexch.PresentationDefinition{
				{
					ID:               "pd-1",
					InputDescriptors: descriptors,
				},
			},
		},
	}
}

type descriptorMapEntry struct {
	id    string
	index int
}

func mapEntry(id string, index int) descriptorMapEntry {
	return descriptorMapEntry{id: id, index: index}
}

func presentationJSON(t *testing.T, definitionID string, credentialIDs []string,
	entries ...descriptorMapEntry) json.RawMessage {
	t.Helper()

	credentials := make([]json.RawMessage, len(credentialIDs))
	for i, id := range credentialIDs {
		credentials[i] = json.RawMessage(credentialJSON(id))
	}

	descriptorMap := make([]*presexch.InputDescriptorMapping, len(entries))
	for i, entry := range entries {
		descriptorMap[i] = &presexch.InputDescriptorMapping{
			ID:     entry.id,
			Format: "ldp_vp",
			Path:   fmt.Sprintf("$.verifiableCredential[%d]", entry.index),
		}
	}

	presentation, err := json.Marshal(map[string]interface{}{
		"@context": []string{"https://www.w3.org/2018/credentials/v1"},
		"type":     "VerifiablePresentation",
		"presentation_submission": &presexch.PresentationSubmission{
			ID:            "submission-1",
			DefinitionID:  definitionID,
			DescriptorMap: descriptorMap,
		},
		"verifiableCredential": credentials,
	})
	require.NoError(t, err)

	return presentation
}

func credentialJSON(id string) string {
	return fmt.Sprintf(`{
		"@context": ["https://www.w3.org/2018/credentials/v1"],
		"id": %q,
		"type": ["VerifiableCredential"],
		"issuer": "did:example:issuer",
		"issuanceDate": "2023-01-01T00:00:00Z",
		"credentialSubject": {"id": "did:example:holder"}
	}`, id)
}

func pathIndex(t *testing.T, path string) int {
	t.Helper()

	var index int

	_, err := fmt.Sscanf(path, "$.verifiableCredential[%d]", &index)
	require.NoError(t, err)

	return index
}
