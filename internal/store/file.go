package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"skilltree/internal/skill"
)

const (
	skillsFile   = "skills.json"
	countersFile = "counters.json"
)

// File persists the state as two JSON documents in a data directory,
// each a map from stringified ID to record. Writes go to a temp file
// first and are renamed into place.
type File struct {
	dir string
}

// NewFile creates the data directory if needed and returns the store.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Load() (*skill.State, error) {
	st := skill.NewState()

	var skills map[string]skill.Skill
	if err := readJSON(filepath.Join(f.dir, skillsFile), &skills); err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	for key, s := range skills {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad skill key %q: %w", key, err)
		}
		st.Skills[id] = s
	}

	var counters map[string]skill.Counter
	if err := readJSON(filepath.Join(f.dir, countersFile), &counters); err != nil {
		return nil, fmt.Errorf("loading counters: %w", err)
	}
	for key, c := range counters {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad counter key %q: %w", key, err)
		}
		st.Counters[id] = c
	}

	return st, nil
}

func (f *File) Save(st *skill.State) error {
	skills := make(map[string]skill.Skill, len(st.Skills))
	for id, s := range st.Skills {
		skills[strconv.FormatInt(id, 10)] = s
	}
	counters := make(map[string]skill.Counter, len(st.Counters))
	for id, c := range st.Counters {
		counters[strconv.FormatInt(id, 10)] = c
	}

	if err := writeJSON(filepath.Join(f.dir, skillsFile), skills); err != nil {
		return fmt.Errorf("saving skills: %w", err)
	}
	if err := writeJSON(filepath.Join(f.dir, countersFile), counters); err != nil {
		return fmt.Errorf("saving counters: %w", err)
	}
	return nil
}

// readJSON decodes path into out; a missing file leaves out nil.
func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// writeJSON writes v to a temp file in the same directory and renames it
// over path, so readers never see a partial document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
