package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleReply struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeReply_BareJSON(t *testing.T) {
	got, err := DecodeReply[sampleReply](`{"name":"api","count":2}`, nil)
	require.NoError(t, err)
	assert.Equal(t, sampleReply{Name: "api", Count: 2}, got)
}

func TestDecodeReply_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"name\":\"api\",\"count\":1}\n```"
	got, err := DecodeReply[sampleReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
}

func TestDecodeReply_SurroundingProse(t *testing.T) {
	raw := `Here is the result you asked for: {"name":"api","count":3} hope it helps`
	got, err := DecodeReply[sampleReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
}

func TestDecodeReply_BracesInsideStrings(t *testing.T) {
	raw := `{"name":"a {nested} brace \" quote","count":1}`
	got, err := DecodeReply[sampleReply](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `a {nested} brace " quote`, got.Name)
}

func TestDecodeReply_NoJSON(t *testing.T) {
	_, err := DecodeReply[sampleReply]("sorry, I cannot help with that", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestDecodeReply_Unbalanced(t *testing.T) {
	_, err := DecodeReply[sampleReply](`{"name":"api"`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestDecodeReply_ValidatorRejects(t *testing.T) {
	validator := func(r sampleReply) error {
		if r.Count < 0 {
			return fmt.Errorf("count must be non-negative")
		}
		return nil
	}

	_, err := DecodeReply[sampleReply](`{"name":"api","count":-1}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)

	got, err := DecodeReply[sampleReply](`{"name":"api","count":0}`, validator)
	require.NoError(t, err)
	assert.Equal(t, "api", got.Name)
}
