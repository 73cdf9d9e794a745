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
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"rivaas.dev/web/logging"
)

// Config holds server settings, populated from the environment.
type Config struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"rivaas-web"`
}

// LoadConfig reads a .env file when present, then the process
// environment. Missing .env is not an error.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// loggerOptions maps config to logging options.
func (c Config) loggerOptions() []logging.Option {
	opts := []logging.Option{logging.WithServiceName(c.ServiceName)}

	switch c.LogLevel {
	case "debug":
		opts = append(opts, logging.WithLevel(logging.LevelDebug))
	case "warn":
		opts = append(opts, logging.WithLevel(logging.LevelWarn))
	case "error":
		opts = append(opts, logging.WithLevel(logging.LevelError))
	default:
		opts = append(opts, logging.WithLevel(logging.LevelInfo))
	}

	if c.LogFormat == "text" {
		opts = append(opts, logging.WithHandler(logging.TextHandler))
	}

	return opts
}
