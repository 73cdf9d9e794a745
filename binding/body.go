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
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// decodeBody negotiates a codec from the request Content-Type and decodes
// data into out. An empty or absent media type defaults to JSON. Unknown
// payload fields are ignored by every codec.
func decodeBody(data []byte, contentType string, out any) error {
	mediaType := normalizeMediaType(contentType)

	switch {
	case mediaType == "", mediaType == "application/json",
		strings.HasSuffix(mediaType, "+json"):
		return json.Unmarshal(data, out)
	case mediaType == "application/yaml", mediaType == "application/x-yaml",
		mediaType == "text/yaml", strings.HasSuffix(mediaType, "+yaml"):
		return yaml.Unmarshal(data, out)
	case mediaType == "application/toml", strings.HasSuffix(mediaType, "+toml"):
		return toml.Unmarshal(data, out)
	case mediaType == "application/msgpack", mediaType == "application/x-msgpack",
		strings.HasSuffix(mediaType, "+msgpack"):
		return msgpack.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

// normalizeMediaType strips parameters such as charset and lowercases the
// media type. Unparseable values fall through verbatim so the caller can
// report them.
func normalizeMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}

	return mediaType
}
