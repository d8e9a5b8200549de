package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jmagar/jellybrowse/internal/model"
)

const deviceIDFile = "device_id"

// EnsureDeviceID returns the device id stored in dir, generating and
// persisting one on first use. Concurrent processes agree on a single id.
func EnsureDeviceID(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("device id: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, deviceIDFile)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("device id: lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr == nil {
			return id, nil
		}
		// Unparseable content is replaced below.
	case !isNotExist(err):
		return "", fmt.Errorf("device id: read %s: %w", path, err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("device id: write %s: %w", path, err)
	}
	return id, nil
}

// AttachDeviceID fills cfg.DeviceID from dir when the config does not pin
// one.
func AttachDeviceID(cfg *model.Config, dir string) error {
	if strings.TrimSpace(cfg.DeviceID) != "" {
		return nil
	}
	id, err := EnsureDeviceID(dir)
	if err != nil {
		return err
	}
	cfg.DeviceID = id
	return nil
}
