package models_test

import (
	"encoding/json"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneai-dev/oneai/pkg/models"
)

func TestFieldThreeStates(t *testing.T) {
	var payload models.EditPayload
	err := json.Unmarshal([]byte(`{"name":"New Name","description":null}`), &payload)
	require.NoError(t, err)

	// Present with value.
	assert.True(t, payload.Name.Present)
	assert.True(t, payload.Name.Valid)
	assert.Equal(t, "New Name", payload.Name.Value)

	// Present as explicit null.
	assert.True(t, payload.Description.Present)
	assert.False(t, payload.Description.Valid)

	// Absent.
	assert.False(t, payload.Version.Present)
}

func TestFieldArrayAndCompound(t *testing.T) {
	var payload models.EditPayload
	err := json.Unmarshal([]byte(`{"tags":["nlp","search"],"metrics":{"performance":91.5}}`), &payload)
	require.NoError(t, err)

	assert.True(t, payload.Tags.Present)
	assert.True(t, payload.Tags.Valid)
	assert.Equal(t, []string{"nlp", "search"}, payload.Tags.Value)

	assert.True(t, payload.Metrics.Present)
	require.NotNil(t, payload.Metrics.Value.Performance)
	assert.InDelta(t, 91.5, *payload.Metrics.Value.Performance, 0.001)
	assert.Nil(t, payload.Metrics.Value.Latency)
}

func TestFieldSchema(t *testing.T) {
	registry := huma.NewMapRegistry("#/components/schemas/", huma.DefaultSchemaNamer)

	// Inline value types carry the nullable flag directly.
	s := models.Field[string]{}.Schema(registry)
	assert.Equal(t, "string", s.Type)
	assert.True(t, s.Nullable)

	s = models.Field[[]string]{}.Schema(registry)
	assert.Equal(t, "array", s.Type)
	assert.True(t, s.Nullable)

	// Struct types resolve to a $ref, which cannot be nullable itself;
	// nullability is expressed as anyOf [ref, null] instead.
	s = models.Field[models.EditMetrics]{}.Schema(registry)
	assert.Empty(t, s.Ref)
	require.Len(t, s.AnyOf, 2)
	assert.NotEmpty(t, s.AnyOf[0].Ref)
	assert.Equal(t, "null", s.AnyOf[1].Type)
}

func TestFieldRejectsWrongType(t *testing.T) {
	var payload models.EditPayload
	err := json.Unmarshal([]byte(`{"name":42}`), &payload)
	assert.Error(t, err)
}

func TestFieldMarshal(t *testing.T) {
	data, err := json.Marshal(models.SetField("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `"hello"`, string(data))

	data, err = json.Marshal(models.NullField[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestWritePayloadSetReplacesDuplicates(t *testing.T) {
	var w models.WritePayload
	w.Set("name", "first")
	w.Set("version", "1.0.0")
	w.Set("name", "second")

	assert.Equal(t, []string{"name", "version"}, w.Columns())
	v, ok := w.Get("name")
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestWritePayloadEmpty(t *testing.T) {
	var w models.WritePayload
	assert.True(t, w.Empty())
	w.Set("name", "x")
	assert.False(t, w.Empty())
}
