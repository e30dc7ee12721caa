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

package state

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"

	"github.com/openpanel/paneld/pkg/log"
)

// unknownName is reported when the OS or host name cannot be read.
const unknownName = "Unknown"

// Sample is one raw reading of CPU, memory, disk and host identity.
// A failed subsystem read leaves its fields at zero / "Unknown".
type Sample struct {
	CPUPercent  float64
	MemoryTotal uint64
	MemoryUsed  uint64
	DiskTotal   uint64
	DiskUsed    uint64
	OSName      string
	HostName    string
}

// ProcessSample is one raw process-table row.
type ProcessSample struct {
	PID         uint32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
}

// Probe reads live OS state. Implementations may keep internal sampling
// state between calls (CPU deltas), so a Probe must never be used from two
// goroutines at once; the Cache enforces that.
type Probe interface {
	// Refresh re-reads CPU, memory, disk and host identity. Subsystem
	// failures degrade to neutral defaults instead of returning an error.
	Refresh() Sample

	// Processes re-reads the process table in enumeration order.
	Processes() []ProcessSample
}

// NewProbe returns the gopsutil-backed probe.
func NewProbe() Probe {
	return &gopsutilProbe{}
}

type gopsutilProbe struct{}

func (p *gopsutilProbe) Refresh() Sample {
	var sample Sample

	// Interval 0 diffs against the previous call, so CPU usage reflects
	// the window since the last refresh.
	cpuPercent, err := cpu.Percent(0, false)
	if err != nil {
		log.Warn("failed to read CPU usage: %v", err)
	} else if len(cpuPercent) > 0 {
		sample.CPUPercent = cpuPercent[0]
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		log.Warn("failed to read memory info: %v", err)
	} else {
		sample.MemoryTotal = vmStat.Total
		sample.MemoryUsed = vmStat.Used
	}

	sample.DiskTotal, sample.DiskUsed = p.readDisks()
	sample.OSName, sample.HostName = p.readHost()

	return sample
}

// readDisks re-reads the mount list before usage so newly mounted or
// unmounted volumes are picked up.
func (p *gopsutilProbe) readDisks() (total, used uint64) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		log.Warn("failed to read disk partitions: %v", err)
		return 0, 0
	}

	// Count each device once; bind mounts show up as extra partitions.
	seen := make(map[string]bool, len(partitions))
	for _, partition := range partitions {
		if seen[partition.Device] {
			continue
		}
		seen[partition.Device] = true

		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			log.Debug("failed to read disk usage for %s: %v", partition.Mountpoint, err)
			continue
		}
		total += usage.Total
		used += usage.Used
	}
	return total, used
}

func (p *gopsutilProbe) readHost() (osName, hostName string) {
	osName, hostName = unknownName, unknownName
	info, err := host.Info()
	if err != nil {
		log.Warn("failed to read host info: %v", err)
		return osName, hostName
	}
	if info.Platform != "" {
		osName = info.Platform
	} else if info.OS != "" {
		osName = info.OS
	}
	if info.Hostname != "" {
		hostName = info.Hostname
	}
	return osName, hostName
}

func (p *gopsutilProbe) Processes() []ProcessSample {
	procs, err := process.Processes()
	if err != nil {
		log.Warn("failed to read process table: %v", err)
		return nil
	}

	samples := make([]ProcessSample, 0, len(procs))
	for _, proc := range procs {
		// Per-process reads race with process exit; skip rows that
		// disappear mid-read rather than failing the whole listing.
		name, err := proc.Name()
		if err != nil {
			continue
		}
		cpuPercent, _ := proc.CPUPercent()

		var memoryBytes uint64
		if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
			memoryBytes = memInfo.RSS
		}

		samples = append(samples, ProcessSample{
			PID:         uint32(proc.Pid),
			Name:        name,
			CPUPercent:  cpuPercent,
			MemoryBytes: memoryBytes,
		})
	}
	return samples
}
