package lhapdf

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataPathEnv overrides where named sets are resolved from disk.
const DataPathEnv = "NEOPDF_DATA_PATH"

// DataPath returns the directory holding installed sets: the path named by
// NEOPDF_DATA_PATH if set, otherwise ~/.local/share/neopdf.
func DataPath() (string, error) {
	if p := os.Getenv(DataPathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "neopdf"), nil
}

// Set locates the files of one PDF set directory.
type Set struct {
	name string
	dir  string
}

// OpenSet opens a set stored at an explicit directory path.
func OpenSet(dir string) (*Set, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Set{name: filepath.Base(dir), dir: dir}, nil
}

// FindSet resolves a set by name under the data path.
func FindSet(name string) (*Set, error) {
	root, err := DataPath()
	if err != nil {
		return nil, err
	}
	return OpenSet(filepath.Join(root, name))
}

// Name returns the set name.
func (s *Set) Name() string { return s.name }

// Dir returns the set directory.
func (s *Set) Dir() string { return s.dir }

// InfoPath returns the path of the set's .info file.
func (s *Set) InfoPath() string {
	return filepath.Join(s.dir, s.name+".info")
}

// MemberPath returns the path of the i-th member's .dat file.
func (s *Set) MemberPath(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%04d.dat", s.name, i))
}

// Info reads and parses the set's .info file.
func (s *Set) Info() (*Info, error) {
	return ReadInfo(s.InfoPath())
}

// Member reads and parses the i-th member's .dat file.
func (s *Set) Member(i int) (*MemberData, error) {
	return ReadMemberData(s.MemberPath(i))
}
