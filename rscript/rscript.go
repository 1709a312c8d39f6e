// Package rscript is rbridge backend running R as Rscript subprocess.
// Requests and replies are exchanged as lines over the process stdin and
// stdout. R values stay in the interpreter and Go side only holds numeric
// handles to them.
//
// Importing the package registers backend "rscript":
//
//	import _ "github.com/oruby/rbridge/rscript"
package rscript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oruby/rbridge"
)

func init() {
	rbridge.Register("rscript", func(conf rbridge.Config) (rbridge.Interop, error) {
		return Open(conf)
	})
}

// Interp is R interpreter running in Rscript process
type Interp struct {
	mu      sync.Mutex
	r       *bufio.Reader
	w       io.Writer
	out     io.Writer
	stdin   io.Closer
	cmd     *exec.Cmd
	timeout time.Duration
	closed  bool
}

// Open starts Rscript with conf.Command, conf.Args are passed before the
// server program
func Open(conf rbridge.Config) (*Interp, error) {
	command := conf.Command
	if command == "" {
		command = "Rscript"
	}

	args := append([]string{"--vanilla"}, conf.Args...)
	args = append(args, "-e", bootstrap)

	cmd := exec.Command(command, args...)
	cmd.Dir = conf.Dir
	cmd.Env = append(os.Environ(), conf.Env...)
	cmd.Stderr = os.Stderr
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, rbridge.ERError("starting %s: %v", command, err)
	}

	in := newInterp(stdout, stdin)
	in.stdin = stdin
	in.cmd = cmd
	in.timeout = conf.Timeout

	// first round trip fails if R did not start the server
	if _, err := in.Eval("NULL"); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

// newInterp creates interpreter talking protocol over r and w
func newInterp(r io.Reader, w io.Writer) *Interp {
	return &Interp{
		r:   bufio.NewReader(r),
		w:   w,
		out: os.Stdout,
	}
}

// SetOutput sets writer for R output which is not protocol reply,
// os.Stdout by default
func (in *Interp) SetOutput(w io.Writer) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.out = w
}

func (in *Interp) send(op, arg string) error {
	if in.closed {
		return rbridge.Raise(rbridge.ErrClosed, "interpreter is closed")
	}
	if _, err := fmt.Fprintf(in.w, "%s %s\n", op, arg); err != nil {
		return rbridge.Raisef(rbridge.ErrClosed, "writing request: %v", err)
	}
	return nil
}

// readLine returns next reply line. Other output is copied to out.
func (in *Interp) readLine() (string, error) {
	for {
		line, err := in.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", rbridge.Raisef(rbridge.ErrClosed, "reading reply: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")

		i := strings.Index(line, marker)
		if i < 0 {
			if line != "" && in.out != nil {
				fmt.Fprintln(in.out, line)
			}
			continue
		}
		if i > 0 && in.out != nil {
			fmt.Fprintln(in.out, line[:i])
		}
		return line[i+len(marker):], nil
	}
}

// readOK reads OK <id> reply
func (in *Interp) readOK() (handle, error) {
	line, err := in.readLine()
	if err != nil {
		return 0, err
	}
	if strings.HasPrefix(line, "ERR ") {
		return 0, replyError(line)
	}
	if !strings.HasPrefix(line, "OK ") {
		return 0, rbridge.ERError("unexpected reply %q", line)
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(line, "OK "), 10, 64)
	if err != nil {
		return 0, rbridge.ERError("invalid handle in reply %q", line)
	}
	return handle(id), nil
}

func (in *Interp) eval(src string) (rbridge.Value, error) {
	if err := in.send("E", quoteR(src)); err != nil {
		return rbridge.Value{}, err
	}
	h, err := in.readOK()
	if err != nil {
		return rbridge.Value{}, err
	}
	return rbridge.MakeValue(h), nil
}

// Eval evaluates R source in global environment
func (in *Interp) Eval(src string) (rbridge.Value, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.eval(src)
}

// Call calls R function with positional arguments. The call is a single
// round trip.
func (in *Interp) Call(fn rbridge.Value, args ...interface{}) (rbridge.Value, error) {
	h, ok := fn.Ref().(handle)
	if !ok {
		return rbridge.Value{}, rbridge.ERError("invalid R function handle %v", fn)
	}

	src, err := callSrc(h, args)
	if err != nil {
		return rbridge.Value{}, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	return in.eval(src)
}

// Intf converts R value to Go value
func (in *Interp) Intf(v rbridge.Value) (interface{}, error) {
	h, ok := v.Ref().(handle)
	if !ok {
		return nil, rbridge.ERError("invalid R value handle %v", v)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.send("G", strconv.FormatUint(uint64(h), 10)); err != nil {
		return nil, err
	}
	return decode(in.readLine)
}

// Release frees R value held by handle. Released value must not be used.
func (in *Interp) Release(v rbridge.Value) error {
	h, ok := v.Ref().(handle)
	if !ok {
		return rbridge.ERError("invalid R value handle %v", v)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.send("F", strconv.FormatUint(uint64(h), 10)); err != nil {
		return err
	}
	_, err := in.readOK()
	return err
}

// Close ends R session. Rscript exits when its stdin is closed; if it did
// not exit within timeout, its process group is killed.
func (in *Interp) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return nil
	}
	in.closed = true

	if in.stdin != nil {
		in.stdin.Close()
	}
	if in.cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- in.cmd.Wait() }()

	timeout := in.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		err := killProcess(in.cmd)
		<-done
		if err != nil {
			return err
		}
		return rbridge.Raisef(rbridge.ErrClosed, "Rscript did not exit in %v, killed", timeout)
	}
}
