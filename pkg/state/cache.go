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

// Package state owns the one live metrics probe for the process lifetime and
// serializes every refresh through it. Each call is a fresh OS read; there is
// no cross-call caching, so concurrent metrics requests queue on the probe.
package state

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/openpanel/paneld/pkg/util/safego"
	"github.com/openpanel/paneld/pkg/web/model"
)

// maxProcessEntries caps the process listing.
const maxProcessEntries = 20

var (
	// ErrProbeBusy means exclusive probe access could not be acquired
	// before the deadline. Callers may retry.
	ErrProbeBusy = errors.New("metrics probe is busy")

	// ErrProbeTimeout means a refresh cycle exceeded the deadline. The
	// refresh keeps running and releases the probe when it finishes.
	ErrProbeTimeout = errors.New("metrics refresh timed out")
)

// Cache guards the probe with a capacity-1 semaphore so both waiting for
// access and waiting for a refresh are bounded.
type Cache struct {
	sem     chan struct{}
	probe   Probe
	timeout time.Duration
}

func NewCache(probe Probe, timeout time.Duration) *Cache {
	return &Cache{
		sem:     make(chan struct{}, 1),
		probe:   probe,
		timeout: timeout,
	}
}

// Snapshot triggers one full refresh cycle and returns a coherent view of
// host metrics. Probe-level read failures surface as zero / "Unknown" fields,
// never as an error; the only error paths are deadline and cancellation.
func (c *Cache) Snapshot(ctx context.Context) (model.SystemSnapshot, error) {
	if err := c.acquire(ctx); err != nil {
		return model.SystemSnapshot{}, err
	}

	done := make(chan model.SystemSnapshot, 1)
	safego.Go(func() {
		defer c.release()
		done <- buildSnapshot(c.probe.Refresh())
	})

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case snapshot := <-done:
		return snapshot, nil
	case <-timer.C:
		return model.SystemSnapshot{}, ErrProbeTimeout
	}
}

// Processes refreshes the process table and returns at most maxProcessEntries
// rows ordered by descending CPU usage. Ties keep enumeration order.
func (c *Cache) Processes(ctx context.Context) ([]model.ProcessEntry, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}

	done := make(chan []model.ProcessEntry, 1)
	safego.Go(func() {
		defer c.release()
		done <- topProcesses(c.probe.Processes())
	})

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case entries := <-done:
		return entries, nil
	case <-timer.C:
		return nil, ErrProbeTimeout
	}
}

// acquire waits for exclusive probe access. Waiting is bounded by the cache
// deadline and by request cancellation; an in-flight refresh is never
// interrupted, only abandoned.
func (c *Cache) acquire(ctx context.Context) error {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrProbeBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) release() {
	<-c.sem
}

func buildSnapshot(sample Sample) model.SystemSnapshot {
	return model.SystemSnapshot{
		CPUUsagePercent:    clampPercent(sample.CPUPercent),
		TotalMemoryBytes:   sample.MemoryTotal,
		UsedMemoryBytes:    sample.MemoryUsed,
		MemoryUsagePercent: usagePercent(sample.MemoryUsed, sample.MemoryTotal),
		TotalDiskBytes:     sample.DiskTotal,
		UsedDiskBytes:      sample.DiskUsed,
		DiskUsagePercent:   usagePercent(sample.DiskUsed, sample.DiskTotal),
		OSName:             sample.OSName,
		HostName:           sample.HostName,
	}
}

// usagePercent is used/total*100, defined as 0 when total is 0.
func usagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return clampPercent(float64(used) / float64(total) * 100)
}

func clampPercent(pct float64) float64 {
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func topProcesses(samples []ProcessSample) []model.ProcessEntry {
	entries := make([]model.ProcessEntry, 0, len(samples))
	for _, sample := range samples {
		entries = append(entries, model.ProcessEntry{
			PID:             sample.PID,
			Name:            sample.Name,
			CPUUsagePercent: sample.CPUPercent,
			MemoryBytes:     sample.MemoryBytes,
		})
	}

	// NaN compares equal on both sides, so NaN rows neither sink nor rise.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].CPUUsagePercent, entries[j].CPUUsagePercent
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		return a > b
	})

	if len(entries) > maxProcessEntries {
		entries = entries[:maxProcessEntries]
	}
	return entries
}
