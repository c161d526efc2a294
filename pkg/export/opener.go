package export

import (
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// Opener hands a document to a viewer. It never fails loudly: when no
// viewer is available the step is skipped.
type Opener interface {
	Open(target string)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(target string)

// Open calls f(target).
func (f OpenerFunc) Open(target string) { f(target) }

// BrowserOpener opens documents with the platform's default handler.
type BrowserOpener struct {
	Logger *log.Logger
}

// Open starts the platform opener for target without waiting for it.
func (o BrowserOpener) Open(target string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		o.debug("no opener for platform", "os", runtime.GOOS)
		return
	}
	if err := cmd.Start(); err != nil {
		o.debug("open skipped", "target", target, "err", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}

func (o BrowserOpener) debug(msg string, kv ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, kv...)
	}
}
