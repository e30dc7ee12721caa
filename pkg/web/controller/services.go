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

import "github.com/gin-gonic/gin"

// ServiceController handles service-status requests for the allow-list.
type ServiceController struct {
	*basicController
}

func NewServiceController(ctx *gin.Context) *ServiceController {
	return &ServiceController{basicController: newBasicController(ctx)}
}

// GetServices probes every allow-listed service per request.
func (c *ServiceController) GetServices() {
	statuses := serviceProber.StatusAll(c.ctx.Request.Context(), serviceNames)
	c.RespondSuccess(statuses)
}
