package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/taskcancel"
	"github.com/slok/sbxmon/internal/printer"
)

type TaskCancelCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
}

// NewTaskCancelCommand returns the task cancel command.
func NewTaskCancelCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskCancelCommand {
	c := &TaskCancelCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("cancel", "Request cancellation of a task.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)

	return c
}

func (c TaskCancelCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskCancelCommand) Run(ctx context.Context) error {
	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := taskcancel.NewService(taskcancel.ServiceConfig{
		Client: client,
		Logger: c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Run(ctx, taskcancel.Request{TaskID: c.taskID}); err != nil {
		return fmt.Errorf("could not cancel task: %w", err)
	}

	// Cancellation is asynchronous: the status flips when the API confirms.
	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Cancellation requested for task: %s", c.taskID)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
