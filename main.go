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

package main

import (
	"fmt"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/openpanel/paneld/pkg/auth"
	"github.com/openpanel/paneld/pkg/flag"
	"github.com/openpanel/paneld/pkg/log"
	"github.com/openpanel/paneld/pkg/state"
	"github.com/openpanel/paneld/pkg/sysservice"
	"github.com/openpanel/paneld/pkg/web"
	"github.com/openpanel/paneld/pkg/web/controller"
)

// main initializes and starts the paneld server.
func main() {
	flag.InitFlags()

	log.SetLevel(flag.ServerLogLevel)

	store, err := auth.Open(flag.DatabaseDriver, flag.DatabaseDSN)
	if err != nil {
		log.Error("failed to open credential store: %v", err)
		return
	}

	// Bootstrap runs before the listener accepts, so the default account
	// exists for the first login.
	if err := store.Bootstrap("admin", flag.AdminPassword); err != nil {
		log.Error("failed to bootstrap credentials: %v", err)
		return
	}

	gate := auth.NewGate(store, flag.JWTSecret)
	cache := state.NewCache(state.NewProbe(), flag.ProbeTimeout)
	prober := sysservice.NewProber(flag.ProbeTimeout)
	controller.Init(cache, gate, prober, flag.ServiceAllowList, flag.FilesRoot)

	engine := web.NewRouter(gate)
	addr := fmt.Sprintf("%s:%d", flag.ServerHost, flag.ServerPort)
	log.Info("paneld listening on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Error("failed to start paneld server: %v", err)
	}
}
