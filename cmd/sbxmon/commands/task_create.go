package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/taskcreate"
	"github.com/slok/sbxmon/internal/printer"
)

type TaskCreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	input    string
	taskType string
}

// NewTaskCreateCommand returns the task create command.
func NewTaskCreateCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskCreateCommand {
	c := &TaskCreateCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("create", "Submit a new task.")
	c.Cmd.Arg("input", "Task instruction text.").Required().StringVar(&c.input)
	c.Cmd.Flag("type", "Task type hint.").StringVar(&c.taskType)

	return c
}

func (c TaskCreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskCreateCommand) Run(ctx context.Context) error {
	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := taskcreate.NewService(taskcreate.ServiceConfig{
		Client: client,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	summary, err := svc.Run(ctx, taskcreate.Request{
		Input:    c.input,
		TaskType: c.taskType,
	})
	if err != nil {
		return fmt.Errorf("could not create task: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Created task: %s", summary.ID)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
