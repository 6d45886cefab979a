package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractionFencedBlock(t *testing.T) {
	raw := "Sure, here is the extracted data:\n```json\n{\"name\": \"Jane Roe\", \"email\": \"jane@example.com\"}\n```\nLet me know if you need anything else."

	payload, err := ParseExtraction(raw)

	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", payload.Name)
	assert.Equal(t, "jane@example.com", payload.Email)
}

func TestParseExtractionBareJSONWithProse(t *testing.T) {
	raw := "Here you go: {\"name\": \"John Doe\", \"phone\": \"+49 151 000\"} — hope that helps."

	payload, err := ParseExtraction(raw)

	require.NoError(t, err)
	assert.Equal(t, "John Doe", payload.Name)
	assert.Equal(t, "+49 151 000", payload.Phone)
}

func TestParseExtractionGreedySpanCoversNestedObjects(t *testing.T) {
	raw := `{"name": "A", "skills": [{"type": "Languages", "skill": "Go", "level": "Advanced (80%)"}]}`

	payload, err := ParseExtraction(raw)

	require.NoError(t, err)
	require.Len(t, payload.Skills, 1)
	assert.Equal(t, "Go", payload.Skills[0].Skill)
	assert.Equal(t, "Advanced (80%)", payload.Skills[0].Level)
}

func TestParseExtractionNoObject(t *testing.T) {
	raw := "I could not read the document, sorry."

	payload, err := ParseExtraction(raw)

	require.Nil(t, payload)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, raw, perr.Raw)
}

func TestParseExtractionTruncatedResponseKeepsRawText(t *testing.T) {
	// Mid-stream cutoff: an opening brace but no closing one.
	raw := "Here is the data: { 'name': 'test'"

	payload, err := ParseExtraction(raw)

	require.Nil(t, payload)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, raw, perr.Raw)
	assert.Contains(t, perr.Error(), "Raw text: "+raw)
}

func TestParseExtractionInvalidJSONKeepsRawText(t *testing.T) {
	raw := "{'name': 'single quotes are not JSON'}"

	payload, err := ParseExtraction(raw)

	require.Nil(t, payload)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, raw, perr.Raw)
}

func TestParseExtractionPrefersFenceOverSurroundingBraces(t *testing.T) {
	raw := "{ignore this}\n```json\n{\"name\": \"Fenced\"}\n```\n{and this}"

	payload, err := ParseExtraction(raw)

	require.NoError(t, err)
	assert.Equal(t, "Fenced", payload.Name)
}
