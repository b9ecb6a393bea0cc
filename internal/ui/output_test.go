package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestUI(buf *bytes.Buffer) *UI {
	u := NewWithWriter(buf)
	u.SetColorMode("never")
	return u
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(u *UI)
		want  string
	}{
		{"info", func(u *UI) { u.Info("watching") }, "[INFO] watching\n"},
		{"infof", func(u *UI) { u.Infof("watching %s", "/tmp/.chrome") }, "[INFO] watching /tmp/.chrome\n"},
		{"success", func(u *UI) { u.Success("done") }, "[✓] done\n"},
		{"successf", func(u *UI) { u.Successf("removed %d", 3) }, "[✓] removed 3\n"},
		{"warning", func(u *UI) { u.Warning("careful") }, "[WARNING] careful\n"},
		{"warningf", func(u *UI) { u.Warningf("%s missing", "x") }, "[WARNING] x missing\n"},
		{"error", func(u *UI) { u.Error("failed") }, "[ERROR] failed\n"},
		{"errorf", func(u *UI) { u.Errorf("failed: %v", "boom") }, "[ERROR] failed: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(newTestUI(&buf))
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestHeaderAndSeparator(t *testing.T) {
	var buf bytes.Buffer
	u := newTestUI(&buf)

	u.Header("Profile Status")
	u.Separator()

	out := buf.String()
	if !strings.Contains(out, "  Profile Status\n") {
		t.Errorf("header title missing from %q", out)
	}
	if strings.Count(out, strings.Repeat("=", 70)) != 2 {
		t.Errorf("expected two borders in %q", out)
	}
	if !strings.HasSuffix(out, strings.Repeat("-", 70)+"\n") {
		t.Errorf("separator missing from %q", out)
	}
}

func TestField(t *testing.T) {
	var buf bytes.Buffer
	newTestUI(&buf).Field("Browser", "/usr/bin/google-chrome")

	want := "  Browser:           /usr/bin/google-chrome\n"
	if buf.String() != want {
		t.Errorf("Field() = %q, want %q", buf.String(), want)
	}
}

func TestPromptYesNoNonInteractive(t *testing.T) {
	var buf bytes.Buffer
	u := newTestUI(&buf)
	u.SetNonInteractive(true)

	if !u.IsNonInteractive() {
		t.Fatal("IsNonInteractive() = false after SetNonInteractive(true)")
	}
	ok, err := u.PromptYesNo("Delete profile?", true)
	if !errors.Is(err, ErrPromptUnavailable) {
		t.Errorf("PromptYesNo() error = %v, want ErrPromptUnavailable", err)
	}
	if ok {
		t.Error("PromptYesNo() = true in non-interactive mode")
	}
}

func TestSetColorMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"always", "\x1b[31m[ERROR] failed\n\x1b[0m"},
		{"never", "[ERROR] failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			var buf bytes.Buffer
			u := NewWithWriter(&buf)
			u.SetColorMode(tt.mode)
			u.Error("failed")
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestAutoColorModeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	u := NewWithWriter(&buf)
	u.Error("failed")
	if buf.String() != "[ERROR] failed\n" {
		t.Errorf("output = %q, want no escapes", buf.String())
	}
}
