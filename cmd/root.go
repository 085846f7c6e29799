package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skilltree/internal/skill"
	"skilltree/internal/store"
)

var (
	dbPath  string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "skilltree",
	Short: "Hierarchical skill tracker with counters",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Use JSON file storage in this directory instead of SQLite")
}

// DiscoverDB finds the database path using priority: env > flag > walk-up > default
func DiscoverDB() string {
	// 1. Environment variable
	if envPath := os.Getenv("SKILLTREE_DB"); envPath != "" {
		return envPath
	}

	// 2. CLI flag
	if dbPath != "" {
		return dbPath
	}

	// 3. Walk up from CWD looking for an existing database
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".skilltree.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	// 4. Default location (created on first use)
	return filepath.Join("data", "skilltree.db")
}

// OpenStore opens the configured backend: JSON files when --data-dir is
// set, SQLite otherwise. The returned closer is a no-op for files.
func OpenStore() (skill.Store, func() error, error) {
	if dataDir != "" {
		f, err := store.NewFile(dataDir)
		if err != nil {
			return nil, nil, err
		}
		return f, func() error { return nil }, nil
	}

	db, err := store.OpenSQLite(DiscoverDB())
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

// OpenService opens the store and wraps it in the service.
func OpenService() (*skill.Service, func() error, error) {
	st, closer, err := OpenStore()
	if err != nil {
		return nil, nil, err
	}
	return skill.NewService(st), closer, nil
}

// ResolveSkill finds a skill by exact ID or by unique case-insensitive
// name match.
func ResolveSkill(svc *skill.Service, reference string) (skill.Skill, error) {
	// 1. Exact ID match
	if id, err := strconv.ParseInt(reference, 10, 64); err == nil {
		if sk, err := svc.GetSkill(id); err == nil {
			return sk, nil
		}
	}

	// 2. Name match
	skills, err := svc.ListSkills()
	if err != nil {
		return skill.Skill{}, err
	}
	var matches []skill.Skill
	for _, sk := range skills {
		if strings.EqualFold(sk.Name, reference) {
			matches = append(matches, sk)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return skill.Skill{}, fmt.Errorf("skill not found: %s", reference)
	default:
		lines := make([]string, len(matches))
		for i, m := range matches {
			lines[i] = fmt.Sprintf("  %d %s", m.ID, m.Name)
		}
		return skill.Skill{}, fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a skill ID instead.",
			reference, len(matches), strings.Join(lines, "\n"))
	}
}
