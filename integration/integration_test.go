//go:build integration

package integration

import (
	"errors"
	"os"
	"testing"

	headlessmc "github.com/wagiedev/headlessmc-go"
)

// launcherJar returns the jar under test or skips when none is configured.
func launcherJar(t *testing.T) string {
	t.Helper()

	jar := os.Getenv("HEADLESSMC_JAR")
	if jar == "" {
		t.Skip("HEADLESSMC_JAR not set")
	}

	return jar
}

// skipIfJavaNotInstalled skips the test if the error indicates java is missing.
func skipIfJavaNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*headlessmc.JavaNotFoundError](err); ok {
		t.Skip("java not installed")
	}
}
