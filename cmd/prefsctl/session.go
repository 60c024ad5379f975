package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-user-prefs/models"
)

// sessionFileMode keeps the stored token pair readable by the owner only.
const sessionFileMode = 0o600

func sessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	return filepath.Join(configDir, "prefsctl", "session.json"), nil
}

// loadSession reads a previously saved token pair. A missing file is not an
// error: it simply means no session has been established on this machine.
func loadSession() (models.TokenPair, error) {
	path, err := sessionPath()
	if err != nil {
		return models.TokenPair{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.TokenPair{}, nil
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("read session file: %w", err)
	}

	var pair models.TokenPair
	if err = json.Unmarshal(data, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("decode session file: %w", err)
	}

	return pair, nil
}

func saveSession(pair models.TokenPair) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err = os.WriteFile(path, data, sessionFileMode); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}
