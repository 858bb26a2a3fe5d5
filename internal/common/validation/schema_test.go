package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "scriptforge/internal/common/errors"
)

func TestGenerateRequestSchemaAcceptsFullBody(t *testing.T) {
	body := []byte(`{
		"topic": "How solid state batteries work",
		"style": "educational",
		"duration": "8-10 minutes",
		"research_depth": "medium",
		"brand_voice": "casual and upbeat"
	}`)

	assert.NoError(t, GenerateRequestSchema.ValidateBytes(body))
}

func TestGenerateRequestSchemaAcceptsTopicOnly(t *testing.T) {
	assert.NoError(t, GenerateRequestSchema.ValidateBytes([]byte(`{"topic": "mechanical keyboards"}`)))
}

func TestGenerateRequestSchemaRejectsMissingTopic(t *testing.T) {
	err := GenerateRequestSchema.ValidateBytes([]byte(`{"style": "educational"}`))
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, commonerrors.CodeOf(err))
}

func TestGenerateRequestSchemaRejectsUnknownField(t *testing.T) {
	err := GenerateRequestSchema.ValidateBytes([]byte(`{"topic": "espresso", "voice": "x"}`))
	assert.Error(t, err)
}

func TestGenerateRequestSchemaRejectsWrongType(t *testing.T) {
	err := GenerateRequestSchema.ValidateBytes([]byte(`{"topic": 42}`))
	assert.Error(t, err)
}

func TestGenerateRequestSchemaRejectsMalformedJSON(t *testing.T) {
	err := GenerateRequestSchema.ValidateBytes([]byte(`{"topic": `))
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, commonerrors.CodeOf(err))
}

func TestRefineRequestSchema(t *testing.T) {
	assert.NoError(t, RefineRequestSchema.ValidateBytes([]byte(`{"feedback": "make the hook shorter"}`)))
	assert.Error(t, RefineRequestSchema.ValidateBytes([]byte(`{}`)))
	assert.Error(t, RefineRequestSchema.ValidateBytes([]byte(`{"feedback": ""}`)))
}
