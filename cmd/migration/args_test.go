package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      command
		wantErr   bool
		wantUsage bool
	}{
		{name: "up", args: []string{"UP"}, want: command{name: "up"}},
		{name: "down default", args: []string{"down"}, want: command{name: "down", steps: 1}},
		{name: "down explicit", args: []string{"down", " 3 "}, want: command{name: "down", steps: 3}},
		{name: "down zero", args: []string{"down", "0"}, wantErr: true},
		{name: "force", args: []string{"force", "1776132000"}, want: command{name: "force", version: 1776132000}},
		{name: "force nil version", args: []string{"force", "-1"}, want: command{name: "force", version: -1}},
		{name: "force missing", args: []string{"force"}, wantErr: true, wantUsage: true},
		{name: "goto", args: []string{"goto", "1776135600"}, want: command{name: "goto", target: 1776135600}},
		{name: "goto garbage", args: []string{"goto", "latest"}, wantErr: true},
		{name: "empty", args: nil, wantErr: true, wantUsage: true},
		{name: "unknown", args: []string{"seed"}, wantErr: true, wantUsage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommand(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.args)
				}
				var usage usageError
				if errors.As(err, &usage) != tt.wantUsage {
					t.Fatalf("usage error mismatch for %v: %v", tt.args, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCommand: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseCommand(%v)=%+v want=%+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Run("env dir with migrations", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "1_init.up.sql"), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write migration: %v", err)
		}
		t.Setenv("MIGRATIONS_DIR", dir)

		got, err := resolveMigrationsDir()
		if err != nil {
			t.Fatalf("resolveMigrationsDir: %v", err)
		}
		want, _ := filepath.Abs(dir)
		if got != want {
			t.Fatalf("resolveMigrationsDir()=%q want=%q", got, want)
		}
	})

	t.Run("empty env dir is skipped", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", t.TempDir())
		t.Chdir(t.TempDir())

		if _, err := resolveMigrationsDir(); err == nil {
			t.Fatalf("expected error without migrations")
		}
	})
}

func TestEnvBool(t *testing.T) {
	t.Setenv("MATCHLENS_FLAG", "true")
	if !envBool("MATCHLENS_FLAG") {
		t.Fatalf("expected true")
	}
	t.Setenv("MATCHLENS_FLAG", "maybe")
	if envBool("MATCHLENS_FLAG") {
		t.Fatalf("expected unparsable value to be false")
	}
}
