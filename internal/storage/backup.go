package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// BackupSuffix is appended to an existing output file before it is replaced.
const BackupSuffix = ".BK"

// BackupAndReplace makes room for a fresh store at path. When path exists it
// is copied to path+BackupSuffix (overwriting an older backup) and removed,
// along with any SQLite -wal/-shm sidecars, so a rerun never merges into a
// previous output. A -wal sidecar is copied next to the backup first: rows
// a crashed run committed but never checkpointed live only there. The -shm
// index is rebuilt from the WAL on open and is not kept.
// It returns the backup path, or "" when there was nothing to back up.
func BackupAndReplace(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("storage: %s is a directory", path)
	}

	backup := path + BackupSuffix
	if err := copyFile(path, backup, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("storage: backup %s: %w", path, err)
	}
	if err := backupWAL(path, backup); err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return backup, fmt.Errorf("storage: remove %s: %w", path, err)
	}
	for _, side := range []string{path + "-wal", path + "-shm"} {
		if err := os.Remove(side); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return backup, fmt.Errorf("storage: remove %s: %w", side, err)
		}
	}
	return backup, nil
}

// backupWAL copies path-wal to backup-wal, or clears a stale backup-wal
// (and any backup-shm) so the backup never replays another run's log.
func backupWAL(path, backup string) error {
	for _, stale := range []string{backup + "-wal", backup + "-shm"} {
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: remove %s: %w", stale, err)
		}
	}
	info, err := os.Stat(path + "-wal")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: stat %s-wal: %w", path, err)
	}
	if err := copyFile(path+"-wal", backup+"-wal", info.Mode().Perm()); err != nil {
		return fmt.Errorf("storage: backup %s-wal: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
