package watch

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
)

const pidFile = ".pdfmerge.pid"

// Serve runs d until ctx is done or the process is interrupted. While it
// runs, a PID file in the first watched directory lets other processes
// find and stop it.
func Serve(ctx context.Context, d *Daemon) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Start(); err != nil {
		return err
	}
	defer d.Stop()

	dir := d.Status().WatchDirectories[0]
	if IsDaemonRunning(dir) {
		return errors.NewFileError("another watcher is already running", dir, errors.InvalidOperation, nil)
	}
	if err := WritePid(dir); err != nil {
		return err
	}
	defer func() {
		if err := RemovePid(dir); err != nil {
			log.LogWithError(err).Warn("Could not remove PID file")
		}
	}()

	log.Info("Watching for files. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info("Stopping watcher...")
	return nil
}

func pidPath(dir string) string {
	return filepath.Join(dir, pidFile)
}

// WritePid records the current process in dir.
func WritePid(dir string) error {
	path := pidPath(dir)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return errors.NewFileError("failed to write PID file", path, errors.FileCreateFailed, err)
	}
	return nil
}

// RemovePid deletes the PID file in dir.
func RemovePid(dir string) error {
	path := pidPath(dir)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewFileError("failed to remove PID file", path, errors.FileOperationFailed, err)
	}
	return nil
}

func readPid(dir string) (int, error) {
	path := pidPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewFileError("watcher is not running", path, errors.FileNotFound, err)
		}
		return 0, errors.NewFileError("failed to read PID file", path, errors.FileAccessDenied, err)
	}
	return parsePid(string(data))
}

// parsePid parses a PID from a string
func parsePid(pidStr string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(pidStr))
	if err != nil || pid <= 0 {
		return 0, errors.Newf("invalid PID %q", strings.TrimSpace(pidStr))
	}
	return pid, nil
}

// IsDaemonRunning reports whether the process named in dir's PID file is
// alive. A stale PID file counts as not running.
func IsDaemonRunning(dir string) bool {
	pid, err := readPid(dir)
	if err != nil {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// StopDaemon asks the watcher of dir to shut down.
func StopDaemon(dir string) error {
	pid, err := readPid(dir)
	if err != nil {
		return err
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return errors.Wrapf(err, "cannot find watcher process %d", pid)
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		return errors.Wrapf(err, "failed to signal watcher process %d", pid)
	}
	log.LogWithFields(log.F("pid", pid), log.F("directory", dir)).Info("Stop signal sent")
	return nil
}
