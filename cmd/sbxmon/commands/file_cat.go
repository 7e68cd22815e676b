package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/fileread"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/printer"
)

type FileCatCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path   string
	format string
}

// NewFileCatCommand returns the file cat command.
func NewFileCatCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *FileCatCommand {
	c := &FileCatCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("cat", "Print the content of a sandbox file.")
	c.Cmd.Arg("path", "File path.").Required().StringVar(&c.path)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c FileCatCommand) Name() string { return c.Cmd.FullCommand() }

func (c FileCatCommand) Run(ctx context.Context) error {
	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := fileread.NewService(fileread.ServiceConfig{
		Client: client,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	preview, err := svc.Run(ctx, fileread.Request{Path: c.path})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return fmt.Errorf("file not found: %s", c.path)
		case errors.Is(err, model.ErrTooLarge):
			return fmt.Errorf("file too large to preview: %s", c.path)
		}
		return fmt.Errorf("could not read file: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintFilePreview(*preview); err != nil {
		return fmt.Errorf("could not print file: %w", err)
	}

	return nil
}
