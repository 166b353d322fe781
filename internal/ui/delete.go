package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

// ErrPrivilegeDenied means elevation was required and refused; the delete
// was never attempted and no state changed.
var ErrPrivilegeDenied = errors.New("privilege elevation denied")

// FailReason is the coarse cause set surfaced for a failed delete. The user
// gets a likely cause, not an exact OS error mapping.
type FailReason int

const (
	ReasonUnknown FailReason = iota
	ReasonInUse
	ReasonPermission
	ReasonProtected
)

func (r FailReason) String() string {
	switch r {
	case ReasonInUse:
		return "item is in use"
	case ReasonPermission:
		return "permission denied"
	case ReasonProtected:
		return "system-protected"
	default:
		return "could not delete"
	}
}

// DeleteError carries the classified failure for display.
type DeleteError struct {
	Reason FailReason
	Err    error
}

func (e *DeleteError) Error() string { return e.Reason.String() }
func (e *DeleteError) Unwrap() error { return e.Err }

// RemoveFunc is the destructive primitive: recursive remove. It does not
// report partial deletion.
type RemoveFunc func(ctx context.Context, path string) error

// ElevateFunc performs the remove with elevated privileges. Returning an
// error means elevation was refused or failed; nothing was deleted.
type ElevateFunc func(ctx context.Context, path string) error

// Workflow runs confirmed deletions: privilege check, optional elevation,
// removal, and freed-size reporting from the listing's known value.
type Workflow struct {
	Remove   RemoveFunc
	Elevate  ElevateFunc
	Writable func(path string) bool
	Timeout  time.Duration
}

// NewWorkflow returns a Workflow backed by os.RemoveAll and an osascript
// administrator prompt for elevation.
func NewWorkflow() *Workflow {
	return &Workflow{
		Remove:   removeAll,
		Elevate:  elevatedRemove,
		Writable: writable,
		Timeout:  60 * time.Second,
	}
}

// Delete removes entry from disk. The caller has already confirmed. Freed
// bytes come from the size the listing reported, never re-measured. A
// target that vanished before or during the delete counts as success.
func (w *Workflow) Delete(ctx context.Context, entry fsentry.Entry) (freed int64, err error) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	if _, err := os.Lstat(entry.Path); err != nil {
		if os.IsNotExist(err) {
			return entry.Size, nil
		}
	}

	// Elevation is needed when either the entry or its parent refuses
	// writes; removal rewrites the parent directory too.
	if !w.Writable(entry.Path) || !w.Writable(filepath.Dir(entry.Path)) {
		if w.Elevate == nil {
			return 0, ErrPrivilegeDenied
		}
		if err := w.Elevate(ctx, entry.Path); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPrivilegeDenied, err)
		}
		return entry.Size, nil
	}

	if err := w.Remove(ctx, entry.Path); err != nil {
		if os.IsNotExist(err) {
			return entry.Size, nil
		}
		return 0, classifyDeleteError(err)
	}
	return entry.Size, nil
}

func classifyDeleteError(err error) error {
	var errno syscall.Errno
	reason := ReasonUnknown
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EBUSY, syscall.ETXTBSY:
			reason = ReasonInUse
		case syscall.EACCES:
			reason = ReasonPermission
		case syscall.EPERM, syscall.EROFS:
			// EPERM on a writable path usually means SIP or flags.
			reason = ReasonProtected
		}
	}
	return &DeleteError{Reason: reason, Err: err}
}

func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// removeAll runs os.RemoveAll off-thread so a hung filesystem cannot wedge
// the caller past its deadline.
func removeAll(ctx context.Context, path string) error {
	done := make(chan error, 1)
	go func() { done <- os.RemoveAll(path) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// elevatedRemove prompts for administrator rights through osascript and
// removes the path in the elevated shell.
func elevatedRemove(ctx context.Context, path string) error {
	quoted := strings.ReplaceAll(path, `\`, `\\`)
	quoted = strings.ReplaceAll(quoted, `"`, `\"`)
	script := fmt.Sprintf(`do shell script "rm -rf " & quoted form of "%s" with administrator privileges`, quoted)

	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s", strings.TrimSpace(string(out)))
	}
	return nil
}

// systemOpen opens or reveals a path with the Finder.
func systemOpen(path string, reveal bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	args := []string{path}
	if reveal {
		args = []string{"-R", path}
	}
	return exec.CommandContext(ctx, "open", args...).Run()
}
