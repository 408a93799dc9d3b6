package tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertJSONEq(t *testing.T, want, got []byte) {
	t.Helper()
	assert.JSONEq(t, string(want), string(got))
}

func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), "body: %s", data)
}

var testCtx = context.Background()
