package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/fileremove"
	"github.com/slok/sbxmon/internal/printer"
)

type FileRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path string
}

// NewFileRmCommand returns the file rm command.
func NewFileRmCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *FileRmCommand {
	c := &FileRmCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("rm", "Delete a sandbox file.")
	c.Cmd.Arg("path", "File path.").Required().StringVar(&c.path)

	return c
}

func (c FileRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c FileRmCommand) Run(ctx context.Context) error {
	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := fileremove.NewService(fileremove.ServiceConfig{
		Client: client,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Run(ctx, fileremove.Request{Path: c.path}); err != nil {
		return fmt.Errorf("could not delete file: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Deleted file: %s", c.path)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
