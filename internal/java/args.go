package java

import (
	"fmt"
	"os"
)

// BuildArgs constructs the java argument vector:
//
//	[jvmArgs...] -jar <jar> [extraArgs...]
func BuildArgs(jarPath string, jvmArgs, extraArgs []string) []string {
	args := make([]string, 0, len(jvmArgs)+len(extraArgs)+2)
	args = append(args, jvmArgs...)
	args = append(args, "-jar", jarPath)
	args = append(args, extraArgs...)

	return args
}

// BuildEnvironment constructs the environment for the launcher process.
func BuildEnvironment(env map[string]string) []string {
	// Start with current environment
	out := os.Environ()

	// Add or override with user-provided environment variables
	for key, value := range env {
		out = append(out, fmt.Sprintf("%s=%s", key, value))
	}

	return out
}
