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

import "time"

var (
	// ServerHost is the address the HTTP listener binds to.
	ServerHost string

	// ServerPort controls the HTTP listener port.
	ServerPort int

	// ServerLogLevel controls the server log verbosity.
	ServerLogLevel int

	// JWTSecret signs and verifies bearer tokens. Changing it invalidates
	// every outstanding token.
	JWTSecret string

	// AdminPassword is the password assigned to the default admin account
	// when the credential table is empty.
	AdminPassword string

	// DatabaseDriver selects the credential store backend, "sqlite" or "mysql".
	DatabaseDriver string

	// DatabaseDSN is the credential store DSN (file path for sqlite).
	DatabaseDSN string

	// FilesRoot confines directory listings to this subtree.
	FilesRoot string

	// ProbeTimeout bounds a single metrics refresh cycle.
	ProbeTimeout time.Duration

	// ServiceAllowList names the system services exposed by /api/services.
	ServiceAllowList []string
)
