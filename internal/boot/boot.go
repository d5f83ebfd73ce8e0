// Package boot contains the process-identity glue around the splash
// engine: detecting pid 1, handing control to the real init and keeping
// the display device open across that handoff. The engine itself knows
// nothing about any of this.
package boot

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/splashd/splashd/internal/logger"
)

// InitPath is the init binary exec'd when running as pid 1.
const InitPath = "/sbin/init"

// IsInit reports whether this process is the system's first process.
func IsInit() bool {
	return os.Getpid() == 1
}

// Handoff replaces the current process with the real init. When hold is
// non-nil a detached holder child inherits it first, so the display
// hardware is not reset when this process image is replaced. Returns only
// on error; a failed exec as pid 1 is a failed boot.
func Handoff(hold *os.File, args []string) error {
	if hold != nil {
		if err := spawnHolder(hold); err != nil {
			logger.Errorf("failed to start display holder: %v", err)
		}
	}
	return unix.Exec(InitPath, initArgv(args), os.Environ())
}

// initArgv builds the argv handed to the real init: our own extra
// arguments (e.g. "single" from the kernel command line) are passed
// through unchanged.
func initArgv(args []string) []string {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, InitPath)
	return append(argv, args...)
}

// spawnHolder re-executes this binary as the hidden hold command, with the
// display device as fd 3.
func spawnHolder(hold *os.File) error {
	cmd := exec.Command("/proc/self/exe", "hold")
	cmd.ExtraFiles = []*os.File{hold}
	return cmd.Start()
}

// Hold detaches from the controlling terminal's std streams and blocks
// forever, keeping any inherited file descriptors open.
func Hold() {
	RedirectStdio()
	select {}
}

// RedirectStdio points stdin, stdout and stderr at /dev/null.
func RedirectStdio() {
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		logger.Errorf("failed to open %s: %v", os.DevNull, err)
		return
	}
	fd := int(devnull.Fd())
	for _, std := range []int{0, 1, 2} {
		if err := unix.Dup2(fd, std); err != nil {
			logger.Errorf("failed to redirect fd %d: %v", std, err)
		}
	}
	devnull.Close()
}
