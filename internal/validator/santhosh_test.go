package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaID = "http://example.com/schema.json"

func mustParse(t *testing.T, s string) JSONDocument {
	t.Helper()
	doc, err := ParseJSON(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestNewSanthoshCompiler(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	assert.NotNil(t, c)
}

func TestSanthoshCompiler_AddSchema(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	err := c.AddSchema(testSchemaID, mustParse(t, `{"$id":"`+testSchemaID+`","type":"object"}`))
	require.NoError(t, err)
}

func TestSanthoshCompiler_Compile(t *testing.T) {
	t.Parallel()

	t.Run("successful compile", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		_ = c.AddSchema(testSchemaID, mustParse(t, `{"type":"object"}`))
		v, err := c.Compile(testSchemaID)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("compile missing schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		v, err := c.Compile("http://example.com/missing.json")
		require.Error(t, err)
		assert.Nil(t, v)
	})

	t.Run("compile invalid schema", func(t *testing.T) {
		t.Parallel()
		c := NewSanthoshCompiler()
		id := "http://example.com/invalid.json"
		_ = c.AddSchema(id, mustParse(t, `{"type":123}`))
		v, err := c.Compile(id)
		require.Error(t, err)
		assert.Nil(t, v)
	})

	t.Run("references resolved through the loader", func(t *testing.T) {
		t.Parallel()
		var loaded []string
		c := NewSanthoshCompiler(WithLoader(func(url string) ([]byte, error) {
			loaded = append(loaded, url)
			return []byte(`{"type":"string"}`), nil
		}))
		_ = c.AddSchema(testSchemaID, mustParse(t, `{"properties":{"id":{"$ref":"http://example.com/id.json"}}}`))
		v, err := c.Compile(testSchemaID)
		require.NoError(t, err)
		assert.Equal(t, []string{"http://example.com/id.json"}, loaded)

		err = v.Validate(mustParse(t, `{"id":5}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Failures, 1)
		assert.Equal(t, "/id", ve.Failures[0].InstanceLocation)
	})

	t.Run("loader failure", func(t *testing.T) {
		t.Parallel()
		offline := errors.New("offline")
		c := NewSanthoshCompiler(WithLoader(func(string) ([]byte, error) {
			return nil, offline
		}))
		_ = c.AddSchema(testSchemaID, mustParse(t, `{"$ref":"http://example.com/other.json"}`))
		_, err := c.Compile(testSchemaID)
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "http://example.com/other.json", le.URL)
		assert.ErrorIs(t, err, offline)
	})
}

func TestSanthoshCompiler_SupportedSchemaVersions(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	versions := c.SupportedSchemaVersions()
	assert.Len(t, versions, 5)
	assert.Contains(t, versions, Draft4)
	assert.Contains(t, versions, Draft6)
	assert.Contains(t, versions, Draft7)
	assert.Contains(t, versions, Draft2019_09)
	assert.Contains(t, versions, Draft2020_12)
}

func TestCheckDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		schema  string
		wantErr bool
	}{
		{name: "no $schema", schema: `{"type":"object"}`},
		{name: "draft-07 with fragment", schema: `{"$schema":"http://json-schema.org/draft-07/schema#"}`},
		{name: "draft-07 without fragment", schema: `{"$schema":"http://json-schema.org/draft-07/schema"}`},
		{name: "2020-12", schema: `{"$schema":"https://json-schema.org/draft/2020-12/schema"}`},
		{name: "draft-03", schema: `{"$schema":"http://json-schema.org/draft-03/schema#"}`, wantErr: true},
		{name: "boolean schema", schema: `false`},
	}

	c := NewSanthoshCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckDraft(c, mustParse(t, tt.schema))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var target *UnsupportedDraftError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, "http://json-schema.org/draft-03/schema#", target.Draft)
		})
	}
}

func TestSanthoshValidator_Validate(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	_ = c.AddSchema(testSchemaID, mustParse(t, `{
		"type": "object",
		"properties": {
			"foo": {"type": "string"},
			"a/b": {"type": "integer"}
		},
		"required": ["foo"]
	}`))
	v, err := c.Compile(testSchemaID)
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, v.Validate(mustParse(t, `{"foo":"bar"}`)))
	})

	t.Run("invalid document", func(t *testing.T) {
		t.Parallel()
		err := v.Validate(mustParse(t, `{"foo":123,"a/b":"x"}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, testSchemaID, ve.SchemaURL)
		require.Len(t, ve.Failures, 2)
		assert.Equal(t, "/a~1b", ve.Failures[0].InstanceLocation)
		assert.Equal(t, "/foo", ve.Failures[1].InstanceLocation)
		assert.True(t, strings.HasPrefix(ve.Failures[1].KeywordLocation, testSchemaID))
		assert.True(t, strings.HasSuffix(ve.Failures[1].KeywordLocation, "/type"))
		assert.NotEmpty(t, ve.Failures[1].Message)
		assert.Contains(t, ve.Error(), "/foo")
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		err := v.Validate(mustParse(t, `{}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Failures, 1)
		assert.Empty(t, ve.Failures[0].InstanceLocation)
		assert.Contains(t, ve.Failures[0].String(), "/: ")
	})
}

func TestSanthoshCompiler_LookaheadPatterns(t *testing.T) {
	t.Parallel()
	c := NewSanthoshCompiler()
	require.NoError(t, c.AddSchema(testSchemaID, mustParse(t, `{
		"type": "object",
		"properties": {"eo:cloud_cover": {"type": "number"}},
		"patternProperties": {"^(?!eo:)": {}},
		"additionalProperties": false
	}`)))
	v, err := c.Compile(testSchemaID)
	require.NoError(t, err)

	require.NoError(t, v.Validate(mustParse(t, `{"eo:cloud_cover": 1.2, "datetime": "x"}`)))

	err = v.Validate(mustParse(t, `{"eo:unknown": 1}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Failures, 1)
	assert.Empty(t, ve.Failures[0].InstanceLocation)
}
