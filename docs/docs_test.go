package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerListsEveryRoute(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)

	routes := map[string][]string{
		"/matches":                                   {"post"},
		"/matches/{id}":                              {"get", "put"},
		"/matches/{id}/scorer":                       {"post"},
		"/matches/{id}/start":                        {"post"},
		"/matches/{id}/toss":                         {"post"},
		"/matches/{id}/overs":                        {"post"},
		"/matches/{id}/overs/close":                  {"post"},
		"/matches/{id}/balls":                        {"post"},
		"/matches/{id}/complete":                     {"post"},
		"/matches/{id}/state":                        {"get"},
		"/matches/{id}/result":                       {"get"},
		"/tournaments/{id}/points-table":             {"get"},
		"/tournaments/{id}/points-table/recalculate": {"post"},
		"/teams":                                     {"post"},
		"/teams/{team_id}/members":                   {"post"},
		"/matches/{id}/squads/{team_id}":             {"get", "put"},
		"/matches/{id}/scorer-invitation":            {"post"},
		"/matches/{id}/scorer-invitation/{action}":   {"put"},
	}
	assert.Len(t, doc.Paths, len(routes))
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "missing %s", path) {
			continue
		}
		for _, m := range methods {
			assert.Contains(t, ops, m, "%s %s", m, path)
		}
	}
}
