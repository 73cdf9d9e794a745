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

import "time"

// LogRequest emits one entry per completed request. Server errors log at
// error level, client errors at warn, everything else at info.
func (l *Logger) LogRequest(method, path, pattern string, status int, duration time.Duration) {
	args := []any{
		"method", method,
		"path", path,
		"route", pattern,
		"status", status,
		"duration_ms", float64(duration.Microseconds()) / 1000.0,
	}

	switch {
	case status >= 500:
		l.Error("request", args...)
	case status >= 400:
		l.Warn("request", args...)
	default:
		l.Info("request", args...)
	}
}
