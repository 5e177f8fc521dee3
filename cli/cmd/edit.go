package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ardnew/sdfc/cli/cmd/edit"
	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/log"
)

// editLogFile is the name of the file in the cache directory receiving log
// output while the editor owns the terminal.
const editLogFile = "edit.log"

// Edit opens source in the interactive editor.
type Edit struct {
	Interval time.Duration `default:"1s" help:"Delay between recompiles of changed text."`

	Source string `arg:"" help:"Source file to edit; created on save." name:"source"`
}

// Run executes the edit command.
func (e *Edit) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			path := filepath.Join(dir, editLogFile)

			file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, configFileMode)
			if err != nil {
				return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
			}
			defer file.Close()

			logger = logger.Wrap(log.WithOutput(file), log.WithPretty(false))
		}
	}

	return edit.Run(ctx, edit.Config{
		Logger:   logger,
		Path:     e.Source,
		Interval: e.Interval,
		Options:  compileOptions(ctx, compiler.WithLogger(logger)),
	})
}
