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
	"strings"
	"sync"
	"sync/atomic"
)

// fieldInfo is the parsed tag state of one exported struct field. It is
// route-independent, so it can be cached per type and shared by every
// BuildSpec call for that type.
type fieldInfo struct {
	name             string
	typ              reflect.Type
	index            int
	source           Source
	tagName          string
	defaultValue     string
	hasDefault       bool
	explicitRequired *bool
}

type structInfo struct {
	fields []fieldInfo
}

// structInfoCache uses copy-on-write: reads take an atomic snapshot of an
// immutable map, writers clone under a mutex and swap the pointer. Struct
// analysis happens during route registration, reads dominate after that.
type structInfoCache struct {
	snapshot atomic.Pointer[map[reflect.Type]*structInfo]
	mu       sync.Mutex
}

var infoCache = func() *structInfoCache {
	c := &structInfoCache{}
	empty := make(map[reflect.Type]*structInfo)
	c.snapshot.Store(&empty)

	return c
}()

func getStructInfo(typ reflect.Type) *structInfo {
	if info, ok := (*infoCache.snapshot.Load())[typ]; ok {
		return info
	}

	infoCache.mu.Lock()
	defer infoCache.mu.Unlock()

	current := *infoCache.snapshot.Load()
	if info, ok := current[typ]; ok {
		return info
	}

	info := analyzeStruct(typ)
	next := make(map[reflect.Type]*structInfo, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[typ] = info
	infoCache.snapshot.Store(&next)

	return info
}

func analyzeStruct(typ reflect.Type) *structInfo {
	info := &structInfo{}
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		f := fieldInfo{name: field.Name, typ: field.Type, index: i}
		parseFieldTags(&f, field.Tag)
		if f.tagName == "-" {
			continue
		}

		info.fields = append(info.fields, f)
	}

	return info
}

// parseFieldTags reads the source tags. Exactly one source tag is honored;
// when several are present the first in canonical order wins and the rest
// are ignored, matching the documented precedence.
func parseFieldTags(f *fieldInfo, tag reflect.StructTag) {
	for _, key := range []string{TagPath, TagQuery, TagHeader, TagCookie, TagBody, TagService} {
		raw, ok := tag.Lookup(key)
		if !ok {
			continue
		}

		f.source = sourceForTag(key)
		name, opts, _ := strings.Cut(raw, ",")
		if name == "-" {
			f.tagName = "-"
			return
		}
		f.tagName = name
		for opt := range strings.SplitSeq(opts, ",") {
			switch opt {
			case "required":
				f.explicitRequired = boolPtr(true)
			case "optional":
				f.explicitRequired = boolPtr(false)
			}
		}

		break
	}

	if def, ok := tag.Lookup(TagDefault); ok {
		f.defaultValue = def
		f.hasDefault = true
	}
}

func sourceForTag(key string) Source {
	switch key {
	case TagPath:
		return SourcePath
	case TagQuery:
		return SourceQuery
	case TagHeader:
		return SourceHeader
	case TagCookie:
		return SourceCookie
	case TagBody:
		return SourceBody
	case TagService:
		return SourceService
	default:
		return SourceUnknown
	}
}

func boolPtr(v bool) *bool { return &v }
