package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const testConfig = `
topology:
  depth: 2
  arity: 3
  tlp_iterations: 1
tacit:
  kind: shape
stretch:
  quick: {time: 1, memory_kib: 64, threads: 1, key_len: 128}
  long: {time: 1, memory_kib: 256, threads: 1, key_len: 128}
logging:
  level: error
`

var kaLine = regexp.MustCompile(`(?m)^[0-9a-f]{256}$`)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "greatwall.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestDeriveWalksTreeAndPrintsKeys(t *testing.T) {
	cfg := writeConfig(t, testConfig)
	// passphrase, 0 at the first level, down, back, down, down, confirm.
	stdin := "correct horse\n0\n1\n0\n2\n3\n1\n"
	code, out, errOut := runCLI(t, stdin, "derive", "--config", cfg, "--plain", "--show-keys")
	if code != exitOK {
		t.Fatalf("exit = %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	for _, want := range []string{"already at the first level", "Level 2 of 2", "1 to confirm", "Derived secret (KA)", "ed25519:", "dilithium3 fingerprint: b"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stdout missing %q:\n%s", want, out)
		}
	}
	if !kaLine.MatchString(out) {
		t.Fatalf("no 128-byte hex secret in stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "done") {
		t.Fatalf("expected bootstrap progress on stderr, got:\n%s", errOut)
	}
}

func TestDeriveGoBackFromConfirmation(t *testing.T) {
	cfg := writeConfig(t, testConfig)
	stdin := "pw\n1\n1\n0\n2\n1\n"
	code, out, errOut := runCLI(t, stdin, "derive", "--config", cfg, "--plain", "--depth", "2")
	if code != exitOK {
		t.Fatalf("exit = %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	if n := strings.Count(out, "1 to confirm"); n != 2 {
		t.Fatalf("confirmation asked %d times, want 2:\n%s", n, out)
	}
	if len(kaLine.FindAllString(out, -1)) != 1 {
		t.Fatalf("expected exactly one secret:\n%s", out)
	}
}

func TestDeriveRepromptsOnBadInput(t *testing.T) {
	cfg := writeConfig(t, testConfig)
	stdin := "pw\nseven\n9\n1\n1\n1\n"
	code, out, errOut := runCLI(t, stdin, "derive", "--config", cfg, "--plain")
	if code != exitOK {
		t.Fatalf("exit = %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	if !strings.Contains(out, "enter a number from 0 to 3") {
		t.Fatalf("expected range hint:\n%s", out)
	}
}

func TestDeriveInputClosed(t *testing.T) {
	cfg := writeConfig(t, testConfig)
	code, _, errOut := runCLI(t, "pw\n", "derive", "--config", cfg, "--plain")
	if code != exitFailure {
		t.Fatalf("exit = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(errOut, "input closed") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestDerivePromptsForUnsetSettings(t *testing.T) {
	cfg := writeConfig(t, `
stretch:
  quick: {time: 1, memory_kib: 64, threads: 1, key_len: 128}
  long: {time: 1, memory_kib: 256, threads: 1, key_len: 128}
logging:
  level: error
`)
	// Flags win; the config file covers the rest, so only the walk is asked.
	stdin := "deadbeef\n2\n1\n"
	code, out, errOut := runCLI(t, stdin, "derive", "--config", cfg, "--plain", "--depth", "1", "--arity", "2", "--kind", "formosa", "--decoder", "hex")
	if code != exitOK {
		t.Fatalf("exit = %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	if strings.Contains(out, "Tree depth") {
		t.Fatalf("depth was given by flag but prompted:\n%s", out)
	}
}

func TestDeriveRejectsBadFlags(t *testing.T) {
	cfg := writeConfig(t, testConfig)
	if code, _, _ := runCLI(t, "", "derive", "--config", cfg, "--depth", "0"); code != exitUsage {
		t.Fatalf("depth 0: exit = %d, want %d", code, exitUsage)
	}
	if code, _, _ := runCLI(t, "", "derive", "--config", cfg, "--kind", "smell"); code != exitUsage {
		t.Fatalf("bad kind: exit = %d, want %d", code, exitUsage)
	}
	if code, _, _ := runCLI(t, "", "derive", "--bogus"); code != exitUsage {
		t.Fatalf("unknown flag: exit = %d, want %d", code, exitUsage)
	}
	if code, _, _ := runCLI(t, "x\n", "derive", "--config", cfg, "--plain", "--decoder", "hex"); code != exitFailure {
		t.Fatalf("undecodable passphrase: exit = %d, want %d", code, exitFailure)
	}
}

func TestPathIndex(t *testing.T) {
	code, out, errOut := runCLI(t, "", "path-index", "--arity", "3", "--depth", "3", "2 -> 3")
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if strings.TrimSpace(out) != "23" {
		t.Fatalf("index = %q, want 23", out)
	}

	code, out, _ = runCLI(t, "", "path-index", "--arity", "3", "--depth", "3", "")
	if code != exitOK || strings.TrimSpace(out) != "0" {
		t.Fatalf("root: exit = %d, out = %q", code, out)
	}

	if code, _, _ := runCLI(t, "", "path-index", "--arity", "1", "--depth", "3", "1"); code != exitUsage {
		t.Fatalf("bad arity: exit = %d, want %d", code, exitUsage)
	}
	if code, _, _ := runCLI(t, "", "path-index", "--arity", "3", "--depth", "1", "1 -> 1"); code != exitUsage {
		t.Fatalf("path deeper than tree: exit = %d, want %d", code, exitUsage)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")
	if code != exitOK || strings.TrimSpace(out) != "greatwall "+version {
		t.Fatalf("exit = %d, out = %q", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if code, _, _ := runCLI(t, "", "frobnicate"); code != exitUsage {
		t.Fatalf("exit = %d, want %d", code, exitUsage)
	}
}
