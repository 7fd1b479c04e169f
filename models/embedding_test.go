package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatIDFromMetadata_Object(t *testing.T) {
	chatID := uuid.New()
	raw := []byte(`{"chatId": "` + chatID.String() + `", "versionId": "irrelevant"}`)

	got, ok := ChatIDFromMetadata(raw)
	require.True(t, ok)
	assert.Equal(t, chatID, got)
}

func TestChatIDFromMetadata_DoubleEncoded(t *testing.T) {
	chatID := uuid.New()
	inner, err := json.Marshal(map[string]string{"chatId": chatID.String()})
	require.NoError(t, err)
	raw, err := json.Marshal(string(inner))
	require.NoError(t, err)

	got, ok := ChatIDFromMetadata(raw)
	require.True(t, ok)
	assert.Equal(t, chatID, got)
}

func TestChatIDFromMetadata_Unparseable(t *testing.T) {
	cases := map[string][]byte{
		"empty":             nil,
		"not json":          []byte("not json at all"),
		"missing chatId":    []byte(`{"versionId": "v1"}`),
		"empty chatId":      []byte(`{"chatId": ""}`),
		"non-string chatId": []byte(`{"chatId": 42}`),
		"invalid uuid":      []byte(`{"chatId": "not-a-uuid"}`),
		"string not object": []byte(`"just a plain string"`),
	}

	for name, raw := range cases {
		_, ok := ChatIDFromMetadata(raw)
		assert.False(t, ok, "case %q should not yield a chat ID", name)
	}
}

func TestEmbeddingMetadata_ScanNil(t *testing.T) {
	var m EmbeddingMetadata
	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestEmbeddingMetadata_ScanBytes(t *testing.T) {
	var m EmbeddingMetadata
	require.NoError(t, m.Scan([]byte(`{"chatId": "abc", "sectionNumber": "101.1"}`)))
	assert.Equal(t, "abc", m["chatId"])
	assert.Equal(t, "101.1", m["sectionNumber"])
}
