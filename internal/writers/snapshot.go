package writers

import (
	"encoding/json"
	"io"

	"rase/internal/jsonlutil"
	"rase/internal/output"
	"rase/internal/runutil"
	"rase/internal/window"
)

// Options says where snapshots go.
type Options struct {
	Format    string    // a registered table format
	Template  string    // per-window path; "" writes no window files
	StatsPath string    // final snapshot; "-" is Stdout
	Stdout    io.Writer // used for "-"
	BufSize   int
}

// StartSnapshotWriter spins up a writer goroutine. Window snapshots are
// written to one file each, named by expanding the template; the final
// snapshot goes to the stats path. The error channel yields once, after the
// input is closed or on the first failure.
func StartSnapshotWriter(opt Options) (chan<- window.Snapshot, <-chan error) {
	if opt.BufSize <= 0 {
		opt.BufSize = 4
	}
	in := make(chan window.Snapshot, opt.BufSize)
	errCh := make(chan error, 1)

	go func() {
		for s := range in {
			path := opt.StatsPath
			if s.Kind == window.KindWindow {
				if opt.Template == "" {
					continue
				}
				path = runutil.ExpandTemplate(opt.Template, s.Start, s.End, s.Elapsed())
			}
			if err := writeFile(path, opt.Stdout, opt.Format, s); err != nil && !IsBrokenPipe(err) {
				errCh <- err
				return
			}
		}
		errCh <- nil
	}()

	return in, errCh
}

func writeFile(path string, stdout io.Writer, format string, s window.Snapshot) error {
	w, err := Create(path, stdout)
	if err != nil {
		return err
	}
	if err := WriteTable(format, w, s); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// StartSnapshotJSONLWriter streams every snapshot as one JSON line (v1).
func StartSnapshotJSONLWriter(out io.Writer, bufSize int) (chan<- window.Snapshot, <-chan error) {
	return jsonlutil.Start[window.Snapshot](out, bufSize,
		func(enc *json.Encoder, s window.Snapshot) error {
			return enc.Encode(output.ToAPISnapshot(s))
		},
		IsBrokenPipe,
	)
}

// Emitter adapts a writer goroutine to a synchronous emit callback. A
// writer that fails stops accepting snapshots, and the next Emit reports
// its error instead of blocking. A writer that stopped quietly (downstream
// closed the pipe) swallows the remaining snapshots.
type Emitter struct {
	in   chan<- window.Snapshot
	done <-chan error
	err  error
	over bool
}

func NewEmitter(in chan<- window.Snapshot, done <-chan error) *Emitter {
	return &Emitter{in: in, done: done}
}

// Emit hands s to the writer.
func (e *Emitter) Emit(s window.Snapshot) error {
	if e.over {
		return e.err
	}
	select {
	case e.in <- s:
		return nil
	case err := <-e.done:
		e.over = true
		e.err = err
		return err
	}
}

// Close flushes the writer and returns its error. Safe to call twice.
func (e *Emitter) Close() error {
	if !e.over {
		e.over = true
		close(e.in)
		e.err = <-e.done
	}
	return e.err
}
