package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# "+env.configPath)
	requireContains(t, out, env.cfg.Paths.StagingDir)
	requireContains(t, out, "max_concurrent = 2")
}

func TestStagingCleanRemovesWorkdirs(t *testing.T) {
	env := setupCLITestEnv(t)
	leftover := filepath.Join(env.cfg.Paths.StagingDir, "request-deadbeef-1")
	if err := os.MkdirAll(leftover, 0o755); err != nil {
		t.Fatalf("mkdir leftover: %v", err)
	}

	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "request-deadbeef-1")

	out, _, err = runCLI(t, []string{"staging", "clean", "--older-than", "0s"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	requireContains(t, out, "Removed 1 working directory")
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Fatalf("expected leftover removed, stat err = %v", err)
	}
}
