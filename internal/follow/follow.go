// Package follow reads rows appended to a growing CSV file.
package follow

import (
	"context"
	"io"
	"strings"

	"github.com/nxadm/tail"
	"github.com/sirupsen/logrus"

	"github.com/domonda/go-tableview/csvtable"
)

type Options struct {
	Path   string
	Format *csvtable.Format
	// FromStart reads the existing lines of the file
	// before following it, else only appended lines are read.
	FromStart bool
	// Poll the file for changes instead of using inotify
	Poll bool
	// Logger for the tail implementation, discarded if nil
	Logger *logrus.Logger
}

// Follow parses every line appended to the file as CSV row.
// Quoted fields spanning multiple lines are not supported.
// Both channels are closed when ctx is done.
func Follow(ctx context.Context, opt Options) (<-chan []string, <-chan error) {
	out := make(chan []string, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if err := opt.Format.Validate(); err != nil {
			errs <- err
			return
		}
		config := tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Poll:      opt.Poll,
			Logger:    tail.DiscardingLogger,
		}
		if opt.Logger != nil {
			config.Logger = opt.Logger
		}
		if !opt.FromStart {
			config.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
		}
		t, err := tail.TailFile(opt.Path, config)
		if err != nil {
			errs <- err
			return
		}
		defer t.Cleanup()

		for {
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case line, ok := <-t.Lines:
				if !ok {
					return
				}
				if line.Err != nil {
					send(ctx, errs, line.Err)
					continue
				}
				rows, err := csvtable.ParseWithFormat([]byte(strings.TrimRight(line.Text, "\r")), opt.Format)
				if err != nil {
					send(ctx, errs, err)
					continue
				}
				for _, row := range rows {
					if len(row) == 0 {
						continue
					}
					if !send(ctx, out, row) {
						t.Stop()
						return
					}
				}
			}
		}
	}()

	return out, errs
}

func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
