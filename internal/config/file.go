package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config
// path is given explicitly.
const EnvConfigPath = "HEADLESSMC_CONFIG"

// File is the on-disk configuration for hmcctl. TOML and YAML are both
// accepted; the format is picked from the file extension.
type File struct {
	Java             string            `toml:"java" yaml:"java"`
	Jar              string            `toml:"jar" yaml:"jar"`
	Cwd              string            `toml:"cwd" yaml:"cwd"`
	JVMArgs          []string          `toml:"jvm_args" yaml:"jvm_args"`
	ExtraArgs        []string          `toml:"extra_args" yaml:"extra_args"`
	Env              map[string]string `toml:"env" yaml:"env"`
	SkipVersionCheck bool              `toml:"skip_version_check" yaml:"skip_version_check"`
	LaunchTimeout    string            `toml:"launch_timeout" yaml:"launch_timeout"`
	LoginTimeout     string            `toml:"login_timeout" yaml:"login_timeout"`
	LockFile         string            `toml:"lock_file" yaml:"lock_file"`
	LogLevel         string            `toml:"log_level" yaml:"log_level"`
}

// ResolvePath returns explicit if set, otherwise the EnvConfigPath variable.
// An empty result means no config file is used.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	return os.Getenv(EnvConfigPath)
}

// LoadFile reads and decodes a config file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	return &f, nil
}

// Apply copies the file's settings onto o. Fields already set on o win.
func (f *File) Apply(o *Options) error {
	if o.JavaPath == "" {
		o.JavaPath = f.Java
	}

	if o.JarPath == "" {
		o.JarPath = f.Jar
	}

	if o.Cwd == "" {
		o.Cwd = f.Cwd
	}

	if o.LockFile == "" {
		o.LockFile = f.LockFile
	}

	if len(o.JVMArgs) == 0 {
		o.JVMArgs = f.JVMArgs
	}

	if len(o.ExtraArgs) == 0 {
		o.ExtraArgs = f.ExtraArgs
	}

	if len(f.Env) > 0 {
		merged := make(map[string]string, len(f.Env)+len(o.Env))

		maps.Copy(merged, f.Env)
		maps.Copy(merged, o.Env)

		o.Env = merged
	}

	o.SkipVersionCheck = o.SkipVersionCheck || f.SkipVersionCheck

	if o.LaunchTimeout == 0 && f.LaunchTimeout != "" {
		d, err := time.ParseDuration(f.LaunchTimeout)
		if err != nil {
			return fmt.Errorf("launch_timeout: %w", err)
		}

		o.LaunchTimeout = d
	}

	if o.LoginTimeout == 0 && f.LoginTimeout != "" {
		d, err := time.ParseDuration(f.LoginTimeout)
		if err != nil {
			return fmt.Errorf("login_timeout: %w", err)
		}

		o.LoginTimeout = d
	}

	return nil
}
