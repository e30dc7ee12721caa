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

// Package auth holds the credential repository and the token gate that
// protects every API route except login.
package auth

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"k8s.io/client-go/util/retry"

	"github.com/openpanel/paneld/pkg/log"
)

// Credential maps a username to its bcrypt password hash. Rows are created
// at bootstrap and never mutated by the API; there is no password-change flow.
type Credential struct {
	ID           uint      `gorm:"primarykey"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	Username     string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:100;not null"`
}

// Store is the credential repository.
type Store struct {
	db *gorm.DB
}

// Open connects to the credential store and migrates the schema.
// driver is "sqlite" (dsn is a file path) or "mysql".
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, fmt.Errorf("failed to migrate credential store: %w", err)
	}

	return &Store{db: db}, nil
}

// FindByUsername returns gorm.ErrRecordNotFound for unknown users.
func (s *Store) FindByUsername(username string) (*Credential, error) {
	var cred Credential
	if err := s.db.Where("username = ?", username).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *Store) Create(cred *Credential) error {
	return s.db.Create(cred).Error
}

// Bootstrap creates the default account if no credentials exist yet. It runs
// before the listener accepts connections, so login never races the insert.
// Writes retry with backoff; sqlite reports transient lock errors when
// another process holds the database file.
func (s *Store) Bootstrap(username, password string) error {
	return retry.OnError(retry.DefaultBackoff,
		func(error) bool { return true },
		func() error { return s.ensureDefault(username, password) })
}

func (s *Store) ensureDefault(username, password string) error {
	var count int64
	if err := s.db.Model(&Credential{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count credentials: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	if err := s.Create(&Credential{Username: username, PasswordHash: hash}); err != nil {
		return fmt.Errorf("failed to create default account: %w", err)
	}

	log.Warn("created default account %q with the configured default password; change it", username)
	return nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
