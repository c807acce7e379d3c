// Package java locates the java executable and launcher jar and builds the
// launcher's command line.
//
// # Discovery
//
// The Discoverer resolves java in the following order:
//  1. Explicit path in Config.JavaPath (if provided)
//  2. $JAVA_HOME/bin/java
//  3. System PATH
//
// The jar in Config.JarPath must exist. After discovery, `java -version` is
// probed and a warning is logged when the major version is below
// MinimumMajorVersion. The probe can be skipped via Config.SkipVersionCheck
// or the HEADLESSMC_SKIP_VERSION_CHECK environment variable.
//
// # Command Building
//
//	args := java.BuildArgs(jar, jvmArgs, extraArgs)
//	env := java.BuildEnvironment(options.Env)
package java
