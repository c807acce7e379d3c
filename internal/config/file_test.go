package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeConfig(t, "hmc.toml", `
java = "/opt/jdk17/bin/java"
jar = "headlessmc-launcher.jar"
jvm_args = ["-Xmx1G"]
launch_timeout = "2m"

[env]
HMC_OFFLINE = "true"
`)

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/opt/jdk17/bin/java", f.Java)
	require.Equal(t, "headlessmc-launcher.jar", f.Jar)
	require.Equal(t, []string{"-Xmx1G"}, f.JVMArgs)
	require.Equal(t, map[string]string{"HMC_OFFLINE": "true"}, f.Env)

	var o Options
	require.NoError(t, f.Apply(&o))
	require.Equal(t, 2*time.Minute, o.LaunchTimeout)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, "hmc.yml", `
jar: /srv/hmc/launcher.jar
skip_version_check: true
login_timeout: 90s
extra_args: ["--nogui"]
`)

	f, err := LoadFile(path)
	require.NoError(t, err)

	var o Options
	require.NoError(t, f.Apply(&o))
	require.Equal(t, "/srv/hmc/launcher.jar", o.JarPath)
	require.True(t, o.SkipVersionCheck)
	require.Equal(t, 90*time.Second, o.LoginTimeout)
	require.Equal(t, []string{"--nogui"}, o.ExtraArgs)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadFile(writeConfig(t, "hmc.json", `{}`))
	require.ErrorContains(t, err, "unsupported config format")

	_, err = LoadFile(writeConfig(t, "bad.toml", `jar = [`))
	require.Error(t, err)
}

func TestApply_ExplicitWins(t *testing.T) {
	f := &File{
		Java:          "/file/java",
		Jar:           "file.jar",
		Env:           map[string]string{"A": "file", "B": "file"},
		LaunchTimeout: "1m",
	}

	o := Options{
		JavaPath:      "/flag/java",
		Env:           map[string]string{"B": "flag"},
		LaunchTimeout: 5 * time.Second,
	}

	require.NoError(t, f.Apply(&o))
	require.Equal(t, "/flag/java", o.JavaPath)
	require.Equal(t, "file.jar", o.JarPath)
	require.Equal(t, map[string]string{"A": "file", "B": "flag"}, o.Env)
	require.Equal(t, 5*time.Second, o.LaunchTimeout)
}

func TestApply_BadDuration(t *testing.T) {
	err := (&File{LaunchTimeout: "soon"}).Apply(&Options{})
	require.ErrorContains(t, err, "launch_timeout")
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/hmc.toml")

	require.Equal(t, "/tmp/x.toml", ResolvePath("/tmp/x.toml"))
	require.Equal(t, "/etc/hmc.toml", ResolvePath(""))
}
