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
	"strconv"
	"strings"

	"rivaas.dev/web/scribe"
)

// ContentTypeJSONAPI is the JSON:API media type.
const ContentTypeJSONAPI = "application/vnd.api+json; charset=utf-8"

// JSONAPI formats errors per the JSON:API error spec
// (https://jsonapi.org/format/#errors). Detail-carrying errors expand
// into one error object per field.
type JSONAPI struct {
	// StatusResolver overrides status determination.
	StatusResolver func(err error) int
}

// NewJSONAPI creates a JSONAPI formatter.
func NewJSONAPI() *JSONAPI { return &JSONAPI{} }

type jsonAPIError struct {
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Code   string         `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source *jsonAPISource `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type jsonAPISource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Header    string `json:"header,omitempty"`
}

type jsonAPIErrorResponse struct {
	Errors []jsonAPIError `json:"errors"`
}

// Format converts an error into a JSON:API error response.
func (f *JSONAPI) Format(_ string, err error) *scribe.Response {
	status := statusOf(err, f.StatusResolver)

	apiErrors := f.expandDetails(err, status)
	if len(apiErrors) == 0 {
		apiErr := jsonAPIError{
			ID:     newErrorID(),
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: errDetail(status, err),
		}
		var coded ErrorCode
		if errors.As(err, &coded) {
			apiErr.Code = coded.Code()
		}
		apiErrors = []jsonAPIError{apiErr}
	}

	return respond(status, ContentTypeJSONAPI, jsonAPIErrorResponse{Errors: apiErrors}, err)
}

// expandDetails converts structured details into per-field error objects.
// Details round-trip through JSON so any detail shape with path/code/
// message members expands without type coupling.
func (f *JSONAPI) expandDetails(err error, status int) []jsonAPIError {
	var detailed ErrorDetails
	if !errors.As(err, &detailed) {
		return nil
	}

	details := detailed.Details()
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		return nil
	}

	var generic any
	if unmarshalErr := json.Unmarshal(detailsJSON, &generic); unmarshalErr != nil {
		return nil
	}

	fields, ok := generic.([]any)
	if !ok {
		return []jsonAPIError{{
			ID:     newErrorID(),
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
			Detail: errDetail(status, err),
			Meta:   map[string]any{"details": details},
		}}
	}

	var apiErrors []jsonAPIError
	for _, field := range fields {
		apiErr := jsonAPIError{
			ID:     newErrorID(),
			Status: strconv.Itoa(status),
			Title:  http.StatusText(status),
		}

		if fieldMap, ok := field.(map[string]any); ok {
			if path, ok := fieldMap["path"].(string); ok && path != "" {
				apiErr.Source = &jsonAPISource{Pointer: pathToPointer(path)}
			}
			if param, ok := fieldMap["parameter"].(string); ok && param != "" {
				apiErr.Source = &jsonAPISource{Parameter: param}
			}
			if code, ok := fieldMap["code"].(string); ok && code != "" {
				apiErr.Code = code
			}
			if message, ok := fieldMap["message"].(string); ok && message != "" {
				apiErr.Detail = message
			}
			if meta, ok := fieldMap["meta"].(map[string]any); ok && len(meta) > 0 {
				apiErr.Meta = meta
			}
		}
		if apiErr.Detail == "" {
			apiErr.Detail = errDetail(status, err)
		}

		apiErrors = append(apiErrors, apiErr)
	}

	return apiErrors
}

// pathToPointer converts a dotted field path to a JSON Pointer under the
// JSON:API attributes document: "items.0.price" becomes
// "/data/attributes/items/0/price".
func pathToPointer(path string) string {
	if path == "" {
		return ""
	}

	return "/data/attributes/" + strings.ReplaceAll(path, ".", "/")
}
