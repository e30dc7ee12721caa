// Copyright 2025 The paneld Authors.
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

package flag

import (
	"flag"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/openpanel/paneld/pkg/log"
)

const (
	jwtSecretEnv     = "PANELD_JWT_SECRET"
	adminPasswordEnv = "PANELD_ADMIN_PASSWORD"
	probeTimeoutEnv  = "PANELD_PROBE_TIMEOUT"
)

// defaultServices is the service allow-list used when -services is not given.
const defaultServices = "sshd,cron,docker,nginx"

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	// Set default values
	ServerHost = "0.0.0.0"
	ServerPort = 3000
	ServerLogLevel = 6
	JWTSecret = ""
	AdminPassword = "password"
	DatabaseDriver = "sqlite"
	DatabaseDSN = "./paneld.db"
	FilesRoot = "."
	ProbeTimeout = time.Second * 10

	// First, set default values from environment variables
	if secretFromEnv := os.Getenv(jwtSecretEnv); secretFromEnv != "" {
		JWTSecret = secretFromEnv
	}

	if passwordFromEnv := os.Getenv(adminPasswordEnv); passwordFromEnv != "" {
		AdminPassword = passwordFromEnv
	}

	if timeoutFromEnv := os.Getenv(probeTimeoutEnv); timeoutFromEnv != "" {
		duration, err := time.ParseDuration(timeoutFromEnv)
		if err != nil {
			stdlog.Panicf("Failed to parse probe timeout from env: %v", err)
		}
		ProbeTimeout = duration
	}

	// Then define flags with current values as defaults
	flag.StringVar(&ServerHost, "host", ServerHost, "Server listening address (default: 0.0.0.0)")
	flag.IntVar(&ServerPort, "port", ServerPort, "Server listening port (default: 3000)")
	flag.IntVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (0=LevelEmergency, 1=LevelAlert, 2=LevelCritical, 3=LevelError, 4=LevelWarning, 5=LevelNotice, 6=LevelInformational, 7=LevelDebug, default: 6)")
	flag.StringVar(&JWTSecret, "jwt-secret", JWTSecret, "Secret used to sign bearer tokens (env PANELD_JWT_SECRET)")
	flag.StringVar(&AdminPassword, "admin-password", AdminPassword, "Password for the bootstrapped admin account (env PANELD_ADMIN_PASSWORD)")
	flag.StringVar(&DatabaseDriver, "db-driver", DatabaseDriver, "Credential store driver, sqlite or mysql (default: sqlite)")
	flag.StringVar(&DatabaseDSN, "db-dsn", DatabaseDSN, "Credential store DSN, file path for sqlite (default: ./paneld.db)")
	flag.StringVar(&FilesRoot, "files-root", FilesRoot, "Root directory the file listing API is confined to (default: .)")
	flag.DurationVar(&ProbeTimeout, "probe-timeout", ProbeTimeout, "Deadline for one metrics refresh cycle (default: 10s)")

	services := flag.String("services", defaultServices, "Comma-separated allow-list of services exposed by /api/services")

	// Parse flags - these will override environment variables if provided
	flag.Parse()

	ServiceAllowList = splitServices(*services)

	if JWTSecret == "" {
		stdlog.Panic("JWT secret is required: set -jwt-secret or PANELD_JWT_SECRET")
	}

	// Log final values
	log.Info("paneld listening address is: %s:%d", ServerHost, ServerPort)
	log.Info("credential store driver is: %s", DatabaseDriver)
	log.Info("service allow-list is: %v", ServiceAllowList)
}

func splitServices(raw string) []string {
	parts := strings.Split(raw, ",")
	services := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			services = append(services, part)
		}
	}
	return services
}
