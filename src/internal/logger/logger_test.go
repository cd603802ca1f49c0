package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayloadMasksVerificationCode(t *testing.T) {
	payload := map[string]any{
		"taskId":           "t-1",
		"verificationCode": "SECRET",
		"nested": map[string]any{
			"channel_key": "abc",
		},
	}

	out, ok := SanitizePayload(payload).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "t-1", out["taskId"])
	assert.Equal(t, "******", out["verificationCode"])
	assert.Equal(t, "******", out["nested"].(map[string]any)["channel_key"])
}

func TestErrorWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Error("mining service start failed", errors.New("boom"), Fields{"accountId": "a-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mining service start failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "a-1", entry["accountId"])
	assert.Equal(t, "error", entry["level"])
}
