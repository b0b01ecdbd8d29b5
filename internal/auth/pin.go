// Package auth implements the PIN gate: a single stored credential that
// unlocks the journal, persisted as a salted PBKDF2 hash in the settings
// table, plus the session machinery that remembers an unlocked client.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/avolkau/daybook/internal/database/settings"
	"github.com/avolkau/daybook/internal/entities"
)

const (
	pinSaltLength = 16
	pinKeyLength  = 32

	// DefaultPinIterations is the PBKDF2-SHA256 work factor. 100k keeps
	// verification around tens of milliseconds on commodity hardware.
	DefaultPinIterations = 100_000
)

// Service derives and verifies the stored PIN credential.
type Service struct {
	settings   *settings.Repository
	iterations int
}

// NewService creates a PIN service backed by the settings repository.
// iterations <= 0 selects DefaultPinIterations.
func NewService(settingsRepo *settings.Repository, iterations int) *Service {
	if iterations <= 0 {
		iterations = DefaultPinIterations
	}
	return &Service{settings: settingsRepo, iterations: iterations}
}

// HasPIN reports whether a PIN hash is stored.
func (s *Service) HasPIN() (bool, error) {
	setting, err := s.settings.GetSetting(entities.SettingKeyPinHash)
	if err != nil {
		return false, err
	}
	return setting != nil && setting.Value != "", nil
}

// SetPIN generates a fresh salt, derives the key and persists both,
// overwriting any previously stored credential.
func (s *Service) SetPIN(pin string) error {
	salt := make([]byte, pinSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash := s.deriveKey(pin, salt)

	if err := s.settings.SetSetting(entities.SettingKeyPinSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return fmt.Errorf("failed to store salt: %w", err)
	}
	if err := s.settings.SetSetting(entities.SettingKeyPinHash, base64.StdEncoding.EncodeToString(hash)); err != nil {
		return fmt.Errorf("failed to store hash: %w", err)
	}
	return nil
}

// VerifyPIN derives a candidate key from the supplied PIN and the stored
// salt and compares it to the stored hash in constant time.
//
// Verification fails closed: a missing salt or hash, malformed stored
// values and a wrong PIN all yield false without an error. Callers cannot
// distinguish "never set" from "wrong PIN" through this method; use HasPIN
// for the former.
func (s *Service) VerifyPIN(pin string) bool {
	saltSetting, err := s.settings.GetSetting(entities.SettingKeyPinSalt)
	if err != nil || saltSetting == nil {
		return false
	}
	hashSetting, err := s.settings.GetSetting(entities.SettingKeyPinHash)
	if err != nil || hashSetting == nil {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(saltSetting.Value)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(hashSetting.Value)
	if err != nil {
		return false
	}

	actual := s.deriveKey(pin, salt)
	return subtle.ConstantTimeCompare(expected, actual) == 1
}

func (s *Service) deriveKey(pin string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pin), salt, s.iterations, pinKeyLength, sha256.New)
}
