package main

import (
	"testing"

	"github.com/at-ishikawa/englearn/internal/testutil"
)

// setConfigFile points the package-level configFile at cfgPath for one test.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	return testutil.SetupBrokenConfig(t, t.TempDir())
}

func setupTestConfigFile(t *testing.T, tmpDir string) string {
	t.Helper()
	return testutil.SetupTestConfig(t, tmpDir)
}
