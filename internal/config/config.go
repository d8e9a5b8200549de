// Package config loads jellybrowse settings from config.json, applies CLI and
// environment overrides, and owns the persistent device identifier.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/jmagar/jellybrowse/internal/api"
	"github.com/jmagar/jellybrowse/internal/model"
	"github.com/jmagar/jellybrowse/internal/ui"
)

// DefaultListenPort is used by serve when neither config nor flags set one.
const DefaultListenPort = 8095

// SearchPaths returns the config file locations tried in order.
func SearchPaths(home string) []string {
	return []string{
		"config.json",
		filepath.Join(home, ".jellybrowse", "config.json"),
		filepath.Join(home, ".config", "jellybrowse", "config.json"),
	}
}

// StateDir is where jellybrowse keeps files it generates itself.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "jellybrowse"), nil
}

// ReadConfig reads explicitPath, or the first file found in SearchPaths when
// explicitPath is empty. It returns the config and the path it came from.
func ReadConfig(explicitPath string) (*model.Config, string, error) {
	paths := []string{explicitPath}
	if explicitPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get home directory: %w", err)
		}
		paths = SearchPaths(home)
	}

	var data []byte
	var configPath string
	var lastErr error
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err == nil {
			data, configPath = b, path
			break
		}
		lastErr = err
	}
	if data == nil {
		return nil, "", fmt.Errorf("%w (tried %s): %w", model.ErrConfigNotFound, strings.Join(paths, ", "), lastErr)
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("%w: parse %s: %w", model.ErrInvalidConfig, configPath, err)
	}
	checkPermissions(os.Stderr, configPath)
	return &cfg, configPath, nil
}

// checkPermissions warns about, and on unix fixes, a config readable by
// other users. The file holds an access token.
func checkPermissions(w io.Writer, path string) {
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm()&0o077 == 0 {
		return
	}
	ui.Warning(w,
		fmt.Sprintf("config file %s has insecure permissions (%04o); it contains your access token", path, info.Mode().Perm()))
	if runtime.GOOS == "windows" {
		fmt.Fprintf(w, "   Windows ACLs in use; skipping chmod auto-fix\n")
		return
	}
	if err := os.Chmod(path, 0o600); err != nil {
		fmt.Fprintf(w, "   Auto-fix failed: %v\n   Fix manually: chmod 600 %s\n", err, path)
		return
	}
	fmt.Fprintf(w, "   Auto-fix applied: chmod 600 %s\n", path)
}

// WriteConfig writes cfg to path with owner-only permissions.
func WriteConfig(path string, cfg *model.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", path, err)
	}
	return nil
}

// NewParser returns the go-arg parser for args.
func NewParser(args *model.Args) (*arg.Parser, error) {
	return arg.NewParser(arg.Config{Program: "jellybrowse"}, args)
}

// ParseArgs parses os.Args, exiting on --help or usage errors.
func ParseArgs() (*model.Args, *arg.Parser) {
	var args model.Args
	p := arg.MustParse(&args)
	return &args, p
}

// Resolve merges the config file named by args (or found on the search
// path) with flag and environment overrides, fills defaults and validates
// the result. A missing file is fine when flags supply the connection.
func Resolve(args *model.Args) (*model.Config, error) {
	cfg, _, err := ReadConfig(args.Config)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrConfigNotFound) && args.Config == "":
		cfg = &model.Config{}
	default:
		return nil, err
	}

	applyOverrides(cfg, args)
	if cfg.ListenPort == 0 {
		cfg.ListenPort = DefaultListenPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *model.Config, args *model.Args) {
	if v := strings.TrimSpace(args.ServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(args.UserID); v != "" {
		cfg.UserID = v
	}
	if v := strings.TrimSpace(args.AccessToken); v != "" {
		cfg.AccessToken = v
	}
	if v := strings.TrimSpace(args.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if args.Serve != nil {
		if args.Serve.Port != 0 {
			cfg.ListenPort = args.Serve.Port
		}
		if args.Serve.Debug {
			cfg.Debug = true
		}
	}
	cfg.AccessToken = strings.TrimPrefix(cfg.AccessToken, "Bearer ")
}

// Validate checks the fields a catalog connection needs and normalises the
// server URL.
func Validate(cfg *model.Config) error {
	u, err := api.NormalizeServerURL(cfg.ServerURL)
	if err != nil {
		return err
	}
	cfg.ServerURL = u.String()

	var missing []string
	if strings.TrimSpace(cfg.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		missing = append(missing, "accessToken")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", model.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	if cfg.ListenPort < 0 || cfg.ListenPort > 65535 {
		return fmt.Errorf("%w: listenPort %d out of range", model.ErrInvalidConfig, cfg.ListenPort)
	}
	return nil
}

// isNotExist reports whether err means a file is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
