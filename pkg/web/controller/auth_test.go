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
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpanel/paneld/pkg/auth"
	"github.com/openpanel/paneld/pkg/web/model"
)

func setupAuthController(t *testing.T, body []byte) (*AuthController, *httptest.ResponseRecorder) {
	t.Helper()

	store, err := auth.Open("sqlite", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, store.Bootstrap("admin", "password"))
	authGate = auth.NewGate(store, "controller-secret")

	ctx, w := newTestContext(http.MethodPost, "/api/login", body)
	return NewAuthController(ctx), w
}

func TestLoginSuccess(t *testing.T) {
	body, _ := json.Marshal(model.LoginRequest{Username: "admin", Password: "password"})
	ctrl, w := setupAuthController(t, body)

	ctrl.Login()

	assert.Equal(t, http.StatusOK, w.Code)

	var resp model.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	subject, err := authGate.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	body, _ := json.Marshal(model.LoginRequest{Username: "admin", Password: "nope"})
	ctrl, w := setupAuthController(t, body)

	ctrl.Login()

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeUnauthorized, resp.Code)
}

// TestLoginUnknownUser must answer exactly like a wrong password.
func TestLoginUnknownUser(t *testing.T) {
	body, _ := json.Marshal(model.LoginRequest{Username: "ghost", Password: "password"})
	ctrl, w := setupAuthController(t, body)

	ctrl.Login()

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeUnauthorized, resp.Code)
	assert.Equal(t, "invalid username or password", resp.Message)
}

func TestLoginMalformedBody(t *testing.T) {
	ctrl, w := setupAuthController(t, []byte("{not json"))

	ctrl.Login()

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"username": "admin"})
	ctrl, w := setupAuthController(t, body)

	ctrl.Login()

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeInvalidRequest, resp.Code)
}
