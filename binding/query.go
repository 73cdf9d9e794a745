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
	"strings"

	"rivaas.dev/web/urls"
)

// QueryValues holds decoded query parameters with repeated-key-as-list
// semantics: "?tag=a&tag=b" yields {"tag": ["a", "b"]} in encounter order.
type QueryValues map[string][]string

// ParseQuery decodes raw query bytes into [QueryValues].
//
// Pairs are split on "&", each pair on the first "=". A key without "=" is
// recorded with an empty value so presence remains observable. Keys and
// values are percent-decoded with "+" treated as a space
// (application/x-www-form-urlencoded convention); a malformed escape fails
// with [urls.ErrInvalidURL].
func ParseQuery(raw []byte) (QueryValues, error) {
	values := make(QueryValues)
	if len(raw) == 0 {
		return values, nil
	}

	for pair := range strings.SplitSeq(string(raw), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := decodeQueryComponent(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := decodeQueryComponent(rawValue)
		if err != nil {
			return nil, err
		}

		values[key] = append(values[key], value)
	}

	return values, nil
}

// decodeQueryComponent percent-decodes one key or value, mapping "+" to
// space first.
func decodeQueryComponent(s string) (string, error) {
	if strings.ContainsRune(s, '+') {
		s = strings.ReplaceAll(s, "+", " ")
	}

	return urls.DecodePercent([]byte(s))
}
