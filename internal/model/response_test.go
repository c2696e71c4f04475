package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure(t *testing.T) {
	resp := Failure("boom", "")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", *resp.Error)
	assert.Equal(t, "Error", resp.Message)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom","message":"Error"}`, string(b))
}

func TestSuccess_OmitsError(t *testing.T) {
	b, err := json.Marshal(Success(map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"n":1},"message":"Success"}`, string(b))
}
