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

// Package sysservice probes the activity state of allow-listed system
// services through systemctl. Probes are stateless; every request re-runs
// the query.
package sysservice

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/openpanel/paneld/pkg/log"
	"github.com/openpanel/paneld/pkg/web/model"
)

// commandRunner runs one external command and returns its stdout. Swappable
// in tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober shells out to systemctl with a per-command timeout.
type Prober struct {
	timeout time.Duration
	run     commandRunner
}

func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		timeout: timeout,
		run:     runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// StatusAll probes every named service in order.
func (p *Prober) StatusAll(ctx context.Context, names []string) []model.ServiceStatus {
	statuses := make([]model.ServiceStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, p.Status(ctx, name))
	}
	return statuses
}

// Status probes one service. "unknown" means the probe itself failed, not
// that the service is stopped: systemctl reports stopped units on stdout
// with a non-zero exit code, so an empty output is what marks a failed probe.
func (p *Prober) Status(ctx context.Context, name string) model.ServiceStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, "systemctl", "is-active", name)
	state := strings.TrimSpace(string(out))

	status := model.ServiceStatus{Name: name, Status: classify(state, err)}
	if status.Status != model.ServiceUnknown {
		status.Description = p.description(ctx, name)
	}
	return status
}

func classify(state string, err error) model.ServiceState {
	switch {
	case state == "active":
		return model.ServiceActive
	case state != "":
		// "inactive", "failed", "activating", ... - the unit exists
		// but is not running.
		return model.ServiceInactive
	default:
		if err != nil {
			log.Debug("service probe failed: %v", err)
		}
		return model.ServiceUnknown
	}
}

// description is best effort; a missing description is an empty string.
func (p *Prober) description(ctx context.Context, name string) string {
	out, err := p.run(ctx, "systemctl", "show", "-p", "Description", "--value", name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
