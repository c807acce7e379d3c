package java

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"time"

	"github.com/wagiedev/headlessmc-go/internal/errors"
)

const (
	// MinimumMajorVersion is the oldest java major version the launcher supports.
	MinimumMajorVersion = 8

	// VersionCheckTimeout is the timeout for the `java -version` probe.
	VersionCheckTimeout = 2 * time.Second

	// EnvSkipVersionCheck disables the version probe when set to any value.
	EnvSkipVersionCheck = "HEADLESSMC_SKIP_VERSION_CHECK"
)

// versionPattern matches both `java version "1.8.0_402"` and
// `openjdk version "21.0.2" 2024-01-16`.
var versionPattern = regexp.MustCompile(`version "([0-9]+)(?:\.([0-9]+))?`)

// Config holds configuration for java discovery.
type Config struct {
	// JavaPath is an explicit java path that skips JAVA_HOME and PATH search.
	JavaPath string

	// JarPath is the launcher jar. It must exist.
	JarPath string

	// SkipVersionCheck skips version validation during discovery.
	// Can also be controlled via the HEADLESSMC_SKIP_VERSION_CHECK env var.
	SkipVersionCheck bool

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the java executable and the launcher jar.
type Discoverer interface {
	// Discover returns the java binary path and the absolute jar path.
	Discover(ctx context.Context) (javaPath string, jarPath string, err error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new java discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the jar and java, then probes the java version.
func (d *discoverer) Discover(ctx context.Context) (string, string, error) {
	jarPath, err := d.findJar()
	if err != nil {
		d.log.Error("Launcher jar not found", "error", err)

		return "", "", err
	}

	javaPath, err := d.findJava()
	if err != nil {
		d.log.Error("Failed to find java", "error", err)

		return "", "", err
	}

	d.log.Debug("Found java executable", "java_path", javaPath, "jar_path", jarPath)

	d.checkVersion(ctx, javaPath)

	return javaPath, jarPath, nil
}

func (d *discoverer) findJar() (string, error) {
	if d.cfg.JarPath == "" {
		return "", &errors.JarNotFoundError{}
	}

	info, err := os.Stat(d.cfg.JarPath)
	if err != nil || info.IsDir() {
		return "", &errors.JarNotFoundError{Path: d.cfg.JarPath}
	}

	abs, err := filepath.Abs(d.cfg.JarPath)
	if err != nil {
		return d.cfg.JarPath, nil
	}

	return abs, nil
}

// findJava locates the java executable.
func (d *discoverer) findJava() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.JavaPath != "" {
		d.log.Debug("Using explicit java path", "java_path", d.cfg.JavaPath)

		if _, err := os.Stat(d.cfg.JavaPath); err == nil {
			return d.cfg.JavaPath, nil
		}

		return "", &errors.JavaNotFoundError{SearchedPaths: []string{d.cfg.JavaPath}}
	}

	searchedPaths := make([]string, 0, 2)

	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidate := filepath.Join(home, "bin", executableName())
		searchedPaths = append(searchedPaths, candidate)

		if _, err := os.Stat(candidate); err == nil {
			d.log.Debug("Found java in JAVA_HOME", "path", candidate)

			return candidate, nil
		}
	}

	if path, err := exec.LookPath("java"); err == nil {
		d.log.Debug("Found java in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	d.log.Warn("java not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.JavaNotFoundError{SearchedPaths: searchedPaths}
}

// checkVersion warns when java is older than MinimumMajorVersion.
// Probe failures are logged and otherwise ignored.
func (d *discoverer) checkVersion(ctx context.Context, javaPath string) {
	if d.cfg.SkipVersionCheck {
		d.log.Debug("Skipping java version check (configured)")

		return
	}

	if os.Getenv(EnvSkipVersionCheck) != "" {
		d.log.Debug("Skipping java version check", "env", EnvSkipVersionCheck)

		return
	}

	ctx, cancel := context.WithTimeout(ctx, VersionCheckTimeout)
	defer cancel()

	// java prints its version banner on stderr.
	output, err := exec.CommandContext(ctx, javaPath, "-version").CombinedOutput()
	if err != nil {
		d.log.Debug("java version check failed", "error", err)

		return
	}

	major, ok := ParseMajorVersion(string(output))
	if !ok {
		d.log.Debug("Could not parse java version", "output", string(output))

		return
	}

	if major < MinimumMajorVersion {
		d.log.Warn("java version is older than the launcher supports",
			"major", major,
			"minimum_required", MinimumMajorVersion,
		)

		return
	}

	d.log.Debug("java version check passed", "major", major)
}

// ParseMajorVersion extracts the major version from `java -version` output.
// Legacy "1.x" versions report x.
func ParseMajorVersion(output string) (int, bool) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, false
	}

	major, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	if major == 1 && match[2] != "" {
		minor, err := strconv.Atoi(match[2])
		if err != nil {
			return 0, false
		}

		return minor, true
	}

	return major, true
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}

	return "java"
}
