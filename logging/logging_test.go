// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line, err := buf.ReadString('\n')
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))

	return m
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithServiceName("orders-api"))
	log.Info("server starting", "addr", ":8080")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "server starting", entry["msg"])
	assert.Equal(t, "orders-api", entry["service"])
	assert.Equal(t, ":8080", entry["addr"])
}

func TestNew_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithHandler(TextHandler))
	log.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf))

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.SetLevel(LevelDebug)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_WithSharesLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf))
	child := log.With("request_id", "abc")

	log.SetLevel(LevelError)
	child.Info("hidden")
	assert.Zero(t, buf.Len())

	child.Error("visible")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["request_id"])
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf))

	ctx := IntoContext(context.Background(), log)
	FromContext(ctx).Info("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, FromContext(context.Background()))
}

func TestLogRequest_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := New(WithOutput(&buf))
		log.LogRequest("GET", "/orders/7", "/orders/:id", tt.status, 1500*time.Microsecond)

		entry := decodeLine(t, &buf)
		assert.Equal(t, tt.level, entry["level"])
		assert.Equal(t, "/orders/:id", entry["route"])
		assert.InDelta(t, 1.5, entry["duration_ms"], 0.001)
	}
}

func TestWithSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithSource())
	log.Info("here")

	assert.True(t, strings.Contains(buf.String(), "source"))
}
