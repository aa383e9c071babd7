package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/taghvim/internal/converter"
)

func runConvert(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ERA_POLICY", "")
	t.Setenv("REPLY_LOCALE", "")

	cmd := newConvertCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := runConvert(t, "1403/01/01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "1403-01-01 (Jalali) => 2024-03-20 (Gregorian)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConvertCommand_JoinsArgs(t *testing.T) {
	out, err := runConvert(t, "2024", "03", "21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "1403-01-02 (Jalali)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConvertCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no date", []string{"hello"}, converter.MsgInvalidFormat},
		{"invalid date", []string{"1403-12-31"}, converter.MsgInvalidDate},
		{"unknown policy", []string{"--policy", "mixed", "1403/01/01"}, "unknown era policy"},
		{"unknown locale", []string{"--locale", "de", "1403/01/01"}, "unsupported locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runConvert(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "taghvim dev\n" {
		t.Errorf("unexpected version output %q", out.String())
	}
}
