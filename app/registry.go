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

package app

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrRegistryFrozen indicates a Provide call after the app started.
// Service wiring is startup-only.
var ErrRegistryFrozen = errors.New("service registry is frozen")

// Registry is the minimal service container behind service-sourced
// handler parameters. It implements [binding.ServiceResolver].
//
// The registry only stores and looks up instances; construction and
// lifecycle of services stay with the application.
type Registry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
	frozen   bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[reflect.Type]any)}
}

// Provide registers value under type T. Register interfaces explicitly:
//
//	app.Provide[OrderStore](reg, store)
func Provide[T any](r *Registry, value T) error {
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot provide %s", ErrRegistryFrozen, key)
	}
	r.services[key] = value

	return nil
}

// Resolve returns the instance registered for t, falling back to the
// first registered instance assignable to t.
func (r *Registry) Resolve(t reflect.Type) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if svc, ok := r.services[t]; ok {
		return svc, nil
	}
	for key, svc := range r.services {
		if key.AssignableTo(t) {
			return svc, nil
		}
	}

	return nil, fmt.Errorf("no service registered for %s", t)
}

// freeze makes the registry read-only.
func (r *Registry) freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}
