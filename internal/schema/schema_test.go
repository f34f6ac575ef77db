package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerdev/codenames-api/internal/domain/entity"
	"github.com/minerdev/codenames-api/internal/openapi"
)

type team struct {
	Name    string   `json:"name" validate:"required"`
	Size    int      `json:"size"`
	Score   float64  `json:"score"`
	Active  bool     `json:"active"`
	Members []string `json:"members"`
	Leader  *entity.User
	secret  string
	Skipped string `json:"-"`
}

func TestValidateUser(t *testing.T) {
	s := Of[entity.User]("User")

	assert.NoError(t, s.Validate(entity.User{ID: "1", Name: "MinerDev"}))
	assert.NoError(t, s.Validate(&entity.User{ID: "1", Name: "MinerDev"}))
}

func TestValidateMissingFields(t *testing.T) {
	s := Of[entity.User]("User")

	err := s.Validate(entity.User{ID: "1"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "User", verr.Schema)
	assert.Equal(t, map[string]string{"name": "is required"}, verr.Details)
	assert.Equal(t, "schema User: validation failed: name: is required", err.Error())
}

func TestValidateWrongType(t *testing.T) {
	s := Of[entity.User]("User")

	cases := map[string]any{
		"map":         map[string]string{"id": "1", "name": "MinerDev"},
		"nil":         nil,
		"nil pointer": (*entity.User)(nil),
		"other":       team{Name: "red"},
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, s.Validate(value), &verr)
			assert.Contains(t, verr.Details, "payload")
		})
	}
}

func TestOpenAPIUser(t *testing.T) {
	s := Of[entity.User]("User")

	assert.Equal(t, "User", s.Name())
	assert.Equal(t, &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":   {Type: "string"},
			"name": {Type: "string"},
		},
		Required: []string{"id", "name"},
	}, s.OpenAPI())
}

func TestOpenAPIFieldKinds(t *testing.T) {
	doc := Of[team]("Team").OpenAPI()

	assert.Equal(t, []string{"name"}, doc.Required)
	assert.Len(t, doc.Properties, 6)
	assert.Equal(t, "integer", doc.Properties["size"].Type)
	assert.Equal(t, "number", doc.Properties["score"].Type)
	assert.Equal(t, "boolean", doc.Properties["active"].Type)
	assert.Equal(t, &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}, doc.Properties["members"])
	assert.Equal(t, "object", doc.Properties["Leader"].Type)
	assert.Contains(t, doc.Properties["Leader"].Properties, "id")
}

func TestOfPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { Of[string]("Str") })
}
