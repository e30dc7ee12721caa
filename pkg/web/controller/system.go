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

package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/openpanel/paneld/pkg/log"
	"github.com/openpanel/paneld/pkg/state"
	"github.com/openpanel/paneld/pkg/util/safego"
	"github.com/openpanel/paneld/pkg/web/model"
)

// SystemController handles host metrics and process-table requests.
type SystemController struct {
	*basicController
}

func NewSystemController(ctx *gin.Context) *SystemController {
	return &SystemController{basicController: newBasicController(ctx)}
}

// GetSystem returns one coherent snapshot of host metrics.
func (c *SystemController) GetSystem() {
	snapshot, err := stateCache.Snapshot(c.ctx.Request.Context())
	if err != nil {
		c.respondProbeError(err)
		return
	}

	c.RespondSuccess(snapshot)
}

// GetProcesses returns the top processes by CPU usage.
func (c *SystemController) GetProcesses() {
	entries, err := stateCache.Processes(c.ctx.Request.Context())
	if err != nil {
		c.respondProbeError(err)
		return
	}

	c.RespondSuccess(entries)
}

// respondProbeError maps probe contention to a retryable status.
func (c *SystemController) respondProbeError(err error) {
	if errors.Is(err, state.ErrProbeBusy) || errors.Is(err, state.ErrProbeTimeout) {
		c.RespondError(
			http.StatusServiceUnavailable,
			model.ErrorCodeProbeBusy,
			"metrics probe is busy, retry later",
		)
		return
	}
	// Request canceled while waiting for the probe; the client is gone.
	c.ctx.Abort()
}

// WatchSystem streams snapshots via SSE until the client disconnects.
func (c *SystemController) WatchSystem() {
	c.setupSSEResponse()

	interval := time.Duration(c.QueryInt64(c.ctx.Query("interval"), 1)) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-time.After(interval):
			func() {
				if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
					defer flusher.Flush()
				}
				msg := c.snapshotPayload()
				if _, err := c.ctx.Writer.Write(append(msg, '\n')); err != nil {
					log.Error("WatchSystem write data %s error: %v", string(msg), err)
				}
			}()
		}
	}
}

func (c *SystemController) snapshotPayload() []byte {
	snapshot, err := stateCache.Snapshot(c.ctx.Request.Context())
	if err != nil {
		msg, _ := json.Marshal(map[string]string{ //nolint:errchkjson
			"error": err.Error(),
		})
		return msg
	}
	msg, _ := json.Marshal(snapshot) //nolint:errchkjson
	return msg
}

// Origins are unrestricted, matching the permissive CORS policy.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// StreamSystem pushes snapshots over a websocket once per second.
func (c *SystemController) StreamSystem() {
	conn, err := wsUpgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Error("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	safego.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx := c.ctx.Request.Context()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			snapshot, err := stateCache.Snapshot(ctx)
			if err != nil {
				continue
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		}
	}
}
