// Package files implements file utilities shared by the corpus readers and writers.
package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultDirCreationPerm is used when creating parent directories of written files.
const DefaultDirCreationPerm = 0755

// LockPollPeriod is the wait between attempts to acquire a lock held by someone else.
var LockPollPeriod = time.Second

// Exists returns true if the path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteLocked writes filePath with the contents produced by write.
//
// The contents are written to filePath+".writing" and then atomically moved to filePath, so
// readers never see a partially written file. A filePath+".lock" file coordinates concurrent
// writers of the same path, across processes. If write returns an error, the temporary file
// is removed and filePath is left untouched.
func WriteLocked(filePath string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(filePath), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := ExecOnFileLock(lockPath, func() {
		tmpPath := filePath + ".writing"
		tmpFile, err := os.Create(tmpPath)
		if err != nil {
			mainErr = errors.Wrapf(err, "creating temporary file %q", tmpPath)
			return
		}
		var tmpFileClosed bool
		defer func() {
			// On error close and remove the unfinished temporary file.
			if !tmpFileClosed {
				if err := tmpFile.Close(); err != nil {
					klog.Warningf("Failed closing temporary file %q: %v", tmpPath, err)
				}
				if err := os.Remove(tmpPath); err != nil {
					klog.Warningf("Failed removing temporary file %q: %v", tmpPath, err)
				}
			}
		}()

		if err := write(tmpFile); err != nil {
			mainErr = errors.WithMessagef(err, "while writing %q", tmpPath)
			return
		}
		tmpFileClosed = true
		if err := tmpFile.Close(); err != nil {
			mainErr = errors.Wrapf(err, "failed to close temporary file %q", tmpPath)
			_ = os.Remove(tmpPath)
			return
		}
		if err := os.Rename(tmpPath, filePath); err != nil {
			mainErr = errors.Wrapf(err, "failed to move %q to %q", tmpPath, filePath)
			_ = os.Remove(tmpPath)
			return
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to write %q", lockPath, filePath)
	}
	return nil
}

// ExecOnFileLock locks lockPath, creating it if needed, runs fn and unlocks it. While the
// lock is held elsewhere it retries every LockPollPeriod. The lockPath is not removed.
func ExecOnFileLock(lockPath string, fn func()) error {
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(context.Background(), LockPollPeriod)
	if err != nil {
		return errors.Wrapf(err, "while trying to lock %q", lockPath)
	}
	if !locked {
		return errors.Errorf("failed to lock %q", lockPath)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			klog.Errorf("Error unlocking file %q: %v", lockPath, err)
		}
	}()
	fn()
	return nil
}
