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
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openpanel/paneld/pkg/auth"
	"github.com/openpanel/paneld/pkg/log"
	"github.com/openpanel/paneld/pkg/web/model"
)

// AuthController handles credential verification and token issuance.
type AuthController struct {
	*basicController
}

func NewAuthController(ctx *gin.Context) *AuthController {
	return &AuthController{basicController: newBasicController(ctx)}
}

// Login verifies the submitted credentials and returns a bearer token.
func (c *AuthController) Login() {
	var request model.LoginRequest
	if err := c.bindJSON(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return
	}
	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("invalid login request: %v", err),
		)
		return
	}

	token, err := authGate.Login(request.Username, request.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.RespondError(
			http.StatusUnauthorized,
			model.ErrorCodeUnauthorized,
			"invalid username or password",
		)
		return
	}
	if err != nil {
		log.Error("login failed for user %q: %v", request.Username, err)
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			"login failed",
		)
		return
	}

	c.RespondSuccess(model.TokenResponse{Token: token})
}
