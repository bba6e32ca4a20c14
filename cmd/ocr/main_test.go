package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunHelpExitsZero(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"-h"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(errb.String(), "Usage:") {
		t.Fatalf("help output missing usage: %q", errb.String())
	}
}

func TestRunVersionExitsZero(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"--version"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out.String(), versionString) {
		t.Fatalf("version output = %q, want it to contain %q", out.String(), versionString)
	}
}

func TestRunHelpPsmListsAllModes(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"--help-psm"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(errb.String(), "13    Raw line") {
		t.Fatalf("help-psm output missing mode 13: %q", errb.String())
	}
}

func TestRunHelpOemListsAllModes(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"--help-oem"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(errb.String(), "LSTM neural net only") {
		t.Fatalf("help-oem output missing mode 1: %q", errb.String())
	}
}

func TestRunMissingArgsExitsOne(t *testing.T) {
	var out, errb bytes.Buffer
	code := run(nil, &out, &errb)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestRunCannotOpenInputImageExitsTwo(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.png"), "out"}, &out, &errb)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errb.String(), "cannot open input file") {
		t.Fatalf("stderr = %q, want a cannot-open diagnostic", errb.String())
	}
}

func TestRunStreamingWithMultipleFormatsExitsOne(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "page.png")
	if err := os.WriteFile(imgPath, []byte("not a real image, stat only"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	var out, errb bytes.Buffer
	code := run([]string{imgPath, "-", "txt", "hocr"}, &out, &errb)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errb.String(), "only one output format") {
		t.Fatalf("stderr = %q, want the streaming-format diagnostic", errb.String())
	}
}

func TestListLangsRequiresTessdataDir(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"--list-langs"}, &out, &errb)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestListLangsScansTraineddataFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"eng.traineddata", "fra.traineddata", "osd.traineddata", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	var out, errb bytes.Buffer
	code := run([]string{"--list-langs", "--tessdata-dir", dir}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%q", code, errb.String())
	}
	got := out.String()
	for _, lang := range []string{"eng", "fra", "osd"} {
		if !strings.Contains(got, lang) {
			t.Fatalf("list-langs output = %q, want it to contain %q", got, lang)
		}
	}
	if strings.Contains(got, "README") {
		t.Fatalf("list-langs output = %q, should not list non-traineddata files", got)
	}
}

func TestIsOutputFormatCaseInsensitive(t *testing.T) {
	if !isOutputFormat("HOCR") {
		t.Fatalf("expected HOCR to match the hocr output format")
	}
	if isOutputFormat("myconfig.cfg") {
		t.Fatalf("myconfig.cfg should not be mistaken for an output format")
	}
}
