package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// latestMigrationVersion returns the highest embedded migration version.
func latestMigrationVersion() (uint, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("list migrations: %w", err)
	}

	var maxVersion uint
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, ok := parseMigrationVersion(name)
		if !ok {
			return 0, fmt.Errorf("invalid migration filename: %s", name)
		}
		if version > maxVersion {
			maxVersion = version
		}
	}

	if maxVersion == 0 {
		return 0, errors.New("no embedded migrations found")
	}
	return maxVersion, nil
}

func parseMigrationVersion(name string) (uint, bool) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) == 0 {
		return 0, false
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
