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

package binding

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderStore interface {
	Find(id int) (string, error)
}

type orderBody struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity"`
}

func TestBuildSpec_Inference(t *testing.T) {
	t.Parallel()

	type getOrder struct {
		OrderID int
		Page    int
		Payload orderBody
		Store   orderStore
	}

	spec, err := BuildSpec(reflect.TypeOf(getOrder{}), []string{"order_id"})
	require.NoError(t, err)
	require.Len(t, spec.Params(), 4)

	bySources := map[string]Source{}
	for _, p := range spec.Params() {
		bySources[p.Name] = p.Source
	}

	assert.Equal(t, SourcePath, bySources["order_id"])
	assert.Equal(t, SourceQuery, bySources["page"])
	assert.Equal(t, SourceBody, bySources["payload"])
	assert.Equal(t, SourceService, bySources["store"])
}

func TestBuildSpec_ExplicitTagsWin(t *testing.T) {
	t.Parallel()

	type in struct {
		Token string `header:"Authorization"`
		Theme string `cookie:"theme"`
		ID    string `query:"id"`
	}

	spec, err := BuildSpec(reflect.TypeOf(in{}), []string{"id"})
	require.NoError(t, err)

	params := spec.Params()
	assert.Equal(t, SourceHeader, params[0].Source)
	assert.Equal(t, "Authorization", params[0].Name)
	assert.Equal(t, SourceCookie, params[1].Source)
	// The query tag overrides the route parameter of the same name.
	assert.Equal(t, SourceQuery, params[2].Source)
}

func TestBuildSpec_MultipleBodyBinders(t *testing.T) {
	t.Parallel()

	type in struct {
		First  orderBody `body:""`
		Second orderBody `body:""`
	}

	_, err := BuildSpec(reflect.TypeOf(in{}), nil)
	require.ErrorIs(t, err, ErrMultipleBodyBinders)
	assert.Contains(t, err.Error(), "first")
}

func TestBuildSpec_NotStruct(t *testing.T) {
	t.Parallel()

	_, err := BuildSpec(reflect.TypeOf(42), nil)
	require.ErrorIs(t, err, ErrNotStruct)
}

func TestBuildSpec_NoBindingSource(t *testing.T) {
	t.Parallel()

	type in struct {
		Notify chan int
	}

	_, err := BuildSpec(reflect.TypeOf(in{}), nil)
	require.ErrorIs(t, err, ErrNoBindingSource)
}

func TestBuildSpec_PathTagNotInRoute(t *testing.T) {
	t.Parallel()

	type in struct {
		ID int `path:"order_id"`
	}

	_, err := BuildSpec(reflect.TypeOf(in{}), []string{"cat_id"})
	require.ErrorIs(t, err, ErrNoBindingSource)
	assert.Contains(t, err.Error(), "order_id")
}

func TestBuildSpec_RequiredSemantics(t *testing.T) {
	t.Parallel()

	type in struct {
		Page     int      `query:"page"`
		Limit    int      `query:"limit" default:"10"`
		Cursor   *string  `query:"cursor"`
		Tags     []string `query:"tag"`
		Forced   *int     `query:"forced,required"`
		Optional int      `query:"opt,optional"`
	}

	spec, err := BuildSpec(reflect.TypeOf(in{}), nil)
	require.NoError(t, err)

	required := map[string]bool{}
	for _, p := range spec.Params() {
		required[p.Name] = p.Required
	}

	assert.True(t, required["page"], "plain scalar is required")
	assert.False(t, required["limit"], "default makes it optional")
	assert.False(t, required["cursor"], "pointer makes it optional")
	assert.False(t, required["tag"], "sequence makes it optional")
	assert.True(t, required["forced"], "required option overrides pointer")
	assert.False(t, required["opt"], "optional option overrides scalar")
}

func TestBuildSpec_SkipsFields(t *testing.T) {
	t.Parallel()

	type in struct {
		Visible string `query:"visible"`
		Ignored string `query:"-"`
	}

	spec, err := BuildSpec(reflect.TypeOf(in{}), nil)
	require.NoError(t, err)
	require.Len(t, spec.Params(), 1)
	assert.Equal(t, "visible", spec.Params()[0].Name)
}

func TestBuildSpec_PointerStructType(t *testing.T) {
	t.Parallel()

	type in struct {
		Page int `query:"page"`
	}

	spec, err := BuildSpec(reflect.TypeOf(&in{}), nil)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(in{}), spec.Type())
}

func TestDeriveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		want  string
	}{
		{"Page", "page"},
		{"CatID", "cat_id"},
		{"OrderID", "order_id"},
		{"HTMLBody", "html_body"},
		{"A", "a"},
		{"UserName", "user_name"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, deriveName(tt.field))
		})
	}
}
