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

package model

// ServiceState is the probed activity state of a system service.
type ServiceState string

const (
	ServiceActive   ServiceState = "active"
	ServiceInactive ServiceState = "inactive"
	// ServiceUnknown means the probe itself failed, not that the service
	// is merely stopped.
	ServiceUnknown ServiceState = "unknown"
)

// ServiceStatus describes one allow-listed system service.
type ServiceStatus struct {
	Name        string       `json:"name"`
	Status      ServiceState `json:"status"`
	Description string       `json:"description"`
}
