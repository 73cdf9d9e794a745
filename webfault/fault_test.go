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

package webfault

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quotaError exercises all four capabilities at once.
type quotaError struct {
	msg string
}

func (e *quotaError) Error() string   { return e.msg }
func (e *quotaError) HTTPStatus() int { return http.StatusTooManyRequests }
func (e *quotaError) Code() string    { return "quota_exceeded" }
func (e *quotaError) Details() any {
	return map[string]string{"limit": "100"}
}
func (e *quotaError) ErrorHeaders() map[string]string {
	return map[string]string{"Retry-After": "30"}
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))

	return m
}

func TestWithStatus(t *testing.T) {
	t.Parallel()

	base := errors.New("missing order")
	err := WithStatus(base, http.StatusNotFound)

	var typed ErrorType
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, 404, typed.HTTPStatus())
	assert.Equal(t, "missing order", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWithStatus_NilError(t *testing.T) {
	t.Parallel()

	err := WithStatus(nil, http.StatusNotFound)
	assert.Equal(t, "Not Found", err.Error())
}

func TestStatusOf_Default(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 500, statusOf(errors.New("boom"), nil))
}

func TestStatusOf_WrappedCapability(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("outer"), WithStatus(nil, http.StatusConflict))
	assert.Equal(t, 409, statusOf(wrapped, nil))
}
