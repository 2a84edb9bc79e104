package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/nest/internal/core/checklist"
	"github.com/colonyops/nest/internal/data/db"
)

// Writes that hit a locked database are retried this many times, doubling
// the wait from busyBackoff between attempts.
const (
	busyAttempts = 4
	busyBackoff  = 50 * time.Millisecond
)

var (
	corruptionCodes = []int{
		sqlite3.SQLITE_CORRUPT,
		sqlite3.SQLITE_NOTADB,
		sqlite3.SQLITE_CANTOPEN,
	}
	corruptionMessages = []string{
		"database disk image is malformed",
		"file is not a database",
		"database corruption",
	}
)

// sqliteCode extracts the primary result code from a driver error.
func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, false
	}
	return sqliteErr.Code() & 0xff, true
}

// IsBusyError reports whether err means another connection holds the lock.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return strings.Contains(err.Error(), "database is locked")
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok && slices.Contains(corruptionCodes, code) {
		return true
	}
	msg := err.Error()
	return slices.ContainsFunc(corruptionMessages, func(s string) bool {
		return strings.Contains(msg, s)
	})
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// retryBusy runs write until it succeeds, fails for a reason other than a
// locked database, or runs out of attempts. A write that stays locked is
// reported as checklist.ErrBusy.
func retryBusy(ctx context.Context, write func() error) error {
	wait := busyBackoff
	var err error
	for attempt := 1; attempt <= busyAttempts; attempt++ {
		err = write()
		if !IsBusyError(err) {
			return err
		}
		if attempt == busyAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("%w: %w", checklist.ErrBusy, err)
}

// RecoverFromCorruption moves a corrupt database and its WAL and SHM files
// aside as <name>.corrupt.<timestamp> so the next Open starts fresh.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	if err := os.Rename(dbPath, backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to back up corrupted database: %w", err)
	}

	// Leftover WAL or SHM files would be replayed into the fresh database.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := moveAside(dbPath+suffix, backupPath+suffix); err != nil {
			return err
		}
	}
	return nil
}

// moveAside renames path to backup, removing it when the rename fails.
func moveAside(path, backup string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := os.Rename(path, backup); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			return fmt.Errorf("failed to move aside %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
