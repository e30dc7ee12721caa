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

// SystemSnapshot is one coherent point-in-time read of host metrics.
// Percentage fields are in [0,100] and defined as 0 when the total is 0.
type SystemSnapshot struct {
	CPUUsagePercent    float64 `json:"cpu_usage_percent"`
	TotalMemoryBytes   uint64  `json:"total_memory_bytes"`
	UsedMemoryBytes    uint64  `json:"used_memory_bytes"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
	TotalDiskBytes     uint64  `json:"total_disk_bytes"`
	UsedDiskBytes      uint64  `json:"used_disk_bytes"`
	DiskUsagePercent   float64 `json:"disk_usage_percent"`
	OSName             string  `json:"os_name"`
	HostName           string  `json:"host_name"`
}

// ProcessEntry describes one process from a live process-table read.
type ProcessEntry struct {
	PID             uint32  `json:"pid"`
	Name            string  `json:"name"`
	CPUUsagePercent float64 `json:"cpu_usage_percent"`
	MemoryBytes     uint64  `json:"memory_bytes"`
}
