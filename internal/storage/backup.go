package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix = "accounts_backup_"
	backupSuffix = ".json"

	// MaxBackups is how many backup files the rotation keeps.
	MaxBackups = 10
)

// backupTimestampLayout sorts lexically in chronological order, so backup
// names can be ordered without parsing.
const backupTimestampLayout = "20060102T150405.000000000"

// WriteBackup serializes the snapshot into a timestamped file under dir and
// prunes the directory to the newest MaxBackups files. It returns the name
// of the file it wrote.
func WriteBackup(dir string, snap Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := backupPrefix + time.Now().UTC().Format(backupTimestampLayout) + backupSuffix
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := pruneBackups(dir); err != nil {
		return name, fmt.Errorf("prune backups: %w", err)
	}
	return name, nil
}

// ReadBackup loads the named backup file from dir.
func ReadBackup(dir, name string) (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		return snap, fmt.Errorf("read backup: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode backup: %w", err)
	}
	return snap, nil
}

// ListBackups returns backup filenames in dir, most recent first. A missing
// directory is an empty list, not an error.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix)
}

// pruneBackups removes the oldest backup files beyond MaxBackups, ordered by
// modification time.
func pruneBackups(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type backupFile struct {
		name string
		mod  time.Time
	}
	var files []backupFile
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		files = append(files, backupFile{name: e.Name(), mod: info.ModTime()})
	}
	if len(files) <= MaxBackups {
		return nil
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].mod.Equal(files[j].mod) {
			return files[i].mod.After(files[j].mod)
		}
		// Timestamped names break mod-time ties on coarse filesystem clocks.
		return files[i].name > files[j].name
	})
	for _, f := range files[MaxBackups:] {
		if err := os.Remove(filepath.Join(dir, f.name)); err != nil {
			return err
		}
	}
	return nil
}
