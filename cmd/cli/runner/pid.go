package runner

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

// CreatePidFile claims the pid file, refusing when another live daemon
// already owns it. Two orchestrators would fight over the same control
// sockets and bind fragment.
func CreatePidFile(path string) error {
	if pid, err := ReadPid(path); err == nil {
		if IsAlive(pid) {
			return fmt.Errorf("pidfile: daemon already running with pid %d", pid)
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("pidfile: could not write pid file: %w", err)
	}

	return nil
}

func RemovePidFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pidfile: could not remove pid file: %w", err)
	}
	return nil
}

func ReadPid(path string) (int, error) {
	pidBytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("pidfile: could not read pid file: %w", err)
	}

	pid, err := strconv.Atoi(string(pidBytes))
	if err != nil {
		return 0, fmt.Errorf("pidfile: could not parse pid: %w", err)
	}

	return pid, nil
}

// IsAlive checks process existence with signal 0. On Unix, FindProcess
// always succeeds, so the signal probe is the real test.
func IsAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

// Terminate asks the pid to shut down cleanly.
func Terminate(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("pidfile: could not find process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("pidfile: could not signal process %d: %w", pid, err)
	}

	return nil
}
