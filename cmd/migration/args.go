package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// command is a validated subcommand. Parsing runs before the database is
// opened so a typo never touches schema_migrations.
type command struct {
	name    string
	steps   int
	version int
	target  uint
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, usageError{"command is required"}
	}
	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}
	rest := args[1:]

	switch cmd.name {
	case "up", "version":
		return cmd, nil
	case "down":
		cmd.steps = 1
		if len(rest) == 0 {
			return cmd, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest[0]))
		if err != nil || n <= 0 {
			return command{}, fmt.Errorf("down steps must be a positive integer, got %q", rest[0])
		}
		cmd.steps = n
		return cmd, nil
	case "force":
		if len(rest) == 0 {
			return command{}, usageError{"force requires a version argument"}
		}
		// -1 is golang-migrate's "no version" marker and stays allowed.
		v, err := strconv.Atoi(strings.TrimSpace(rest[0]))
		if err != nil || v < -1 {
			return command{}, fmt.Errorf("invalid force version %q", rest[0])
		}
		cmd.version = v
		return cmd, nil
	case "goto":
		if len(rest) == 0 {
			return command{}, usageError{"goto requires a target version argument"}
		}
		v, err := strconv.ParseUint(strings.TrimSpace(rest[0]), 10, 0)
		if err != nil {
			return command{}, fmt.Errorf("invalid target version %q", rest[0])
		}
		cmd.target = uint(v)
		return cmd, nil
	default:
		return command{}, usageError{fmt.Sprintf("unknown command %q", cmd.name)}
	}
}

// resolveMigrationsDir picks the first candidate holding at least one up
// migration, so an empty checkout directory is not mistaken for the schema.
func resolveMigrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"db/migrations",
		"/app/db/migrations",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		ups, err := filepath.Glob(filepath.Join(abs, "*.up.sql"))
		if err != nil || len(ups) == 0 {
			continue
		}
		return abs, nil
	}
	return "", fmt.Errorf("no *.up.sql found in MIGRATIONS_DIR, db/migrations or /app/db/migrations")
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}
