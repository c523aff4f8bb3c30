package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sonus/internal/testsupport"
)

const sampleODM = `<OverDriveMedia ODMVersion="1.0.0" id="ABC-123">
  <License>
    <AcquisitionUrl>https://license.example.com/acquire</AcquisitionUrl>
  </License>
  <Formats>
    <Format name="audiobook-mp3">
      <Protocols>
        <Protocol method="download" baseurl="https://dl.example.com/media"/>
      </Protocols>
      <Parts count="2">
        <Part number="1" filesize="2048" name="Book-Part01" filename="Fmt425-Part01.mp3" duration="10:00"/>
        <Part number="2" filesize="4096" name="Book-Part02" filename="Fmt425-Part02.mp3" duration="12:30"/>
      </Parts>
    </Format>
  </Formats>
  <EarlyReturnURL>%s</EarlyReturnURL>
  <Metadata>
    <Title>Salt &amp; Stone</Title>
    <Creators>
      <Creator role="Author">Jane Doe</Creator>
      <Creator role="Narrator">Voice Person</Creator>
    </Creators>
  </Metadata>
</OverDriveMedia>`

func writeTestConfig(t *testing.T, ffmpegBinary string) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
output_dir = %q
data_dir = %q
log_dir = %q

[download]
progress = false

[ffmpeg]
binary = %q
probe_binary = %q
`,
		filepath.Join(base, "books"),
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		ffmpegBinary,
		ffmpegBinary,
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeODMFile(t *testing.T, returnURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.odm")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(sampleODM, returnURL)), 0o644); err != nil {
		t.Fatalf("write odm: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output missing target path: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config")
	}
	if _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowCommand(t *testing.T) {
	cfgPath := writeTestConfig(t, "ffmpeg")

	out, err := runCLI(t, cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"paths.output_dir", "ffmpeg.binary", "present: yes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommand(t *testing.T) {
	odmPath := writeODMFile(t, "https://license.example.com/return")

	out, err := runCLI(t, "", "info", odmPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Salt & Stone", "Jane Doe", "ABC-123", "Book-Part01", "12:30", "6.0 KiB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReturnCommand(t *testing.T) {
	var returned bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		returned = true
	}))
	defer server.Close()

	cfgPath := writeTestConfig(t, "ffmpeg")
	odmPath := writeODMFile(t, server.URL)

	out, err := runCLI(t, cfgPath, "return", odmPath)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if !returned {
		t.Fatal("early return request never reached the server")
	}
	if !strings.Contains(out, "Returned") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestListCommandEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t, "ffmpeg")

	out, err := runCLI(t, cfgPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No loans recorded yet") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestStagingRootStaysOutsideOutputTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	root := stagingRoot(cfg)
	if !strings.HasPrefix(root, cfg.Paths.DataDir+string(filepath.Separator)) {
		t.Fatalf("staging root %q not under data dir %q", root, cfg.Paths.DataDir)
	}
	// get chapterizes the staged parts into the output tree; staging inside
	// it would make a second run rescan the chapter files.
	if strings.HasPrefix(root, cfg.Paths.OutputDir+string(filepath.Separator)) || root == cfg.Paths.OutputDir {
		t.Fatalf("staging root %q must not live in the output tree %q", root, cfg.Paths.OutputDir)
	}
}

func TestGetCommandRequiresTools(t *testing.T) {
	cfgPath := writeTestConfig(t, "definitely-not-a-binary")
	odmPath := writeODMFile(t, "https://license.example.com/return")

	_, err := runCLI(t, cfgPath, "get", odmPath)
	if err == nil {
		t.Fatal("expected missing-tool error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDepsCommandReportsMissingBinaries(t *testing.T) {
	cfgPath := writeTestConfig(t, "definitely-not-a-binary")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--config", cfgPath, "deps"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected deps to fail when binaries are missing")
	}
	if !strings.Contains(stdout.String(), "definitely-not-a-binary") {
		t.Fatalf("table missing binary name:\n%s", stdout.String())
	}
}
