package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/filelist"
	"github.com/slok/sbxmon/internal/printer"
)

type FileListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path   string
	offset int64
	limit  int64
	format string
}

// NewFileListCommand returns the file list command.
func NewFileListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *FileListCommand {
	c := &FileListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List a sandbox directory.")
	c.Cmd.Arg("path", "Directory path.").Default("/").StringVar(&c.path)
	c.Cmd.Flag("offset", "Pagination offset.").Default("0").Int64Var(&c.offset)
	c.Cmd.Flag("limit", "Maximum number of entries per page.").Default("200").Int64Var(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c FileListCommand) Name() string { return c.Cmd.FullCommand() }

func (c FileListCommand) Run(ctx context.Context) error {
	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := filelist.NewService(filelist.ServiceConfig{
		Client: client,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	listing, err := svc.Run(ctx, filelist.Request{
		Path:   c.path,
		Offset: c.offset,
		Limit:  c.limit,
	})
	if err != nil {
		return fmt.Errorf("could not list files: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintFileList(*listing); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
