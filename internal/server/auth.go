package server

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var errInvalidRecoveryKey = errors.New("invalid recovery key")

func normalizeRecoveryKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

func (s *Server) hashRecoveryKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizeRecoveryKey(key)), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyRecoveryKey checks key against the hash stored on an artist. Artists
// that never finished a username have no key and cannot be claimed.
func verifyRecoveryKey(hash, key string) error {
	key = normalizeRecoveryKey(key)
	if hash == "" || key == "" {
		return errInvalidRecoveryKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return errInvalidRecoveryKey
	}
	return nil
}
