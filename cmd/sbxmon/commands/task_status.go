package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/taskstatus"
	"github.com/slok/sbxmon/internal/cache"
	"github.com/slok/sbxmon/internal/printer"
	"github.com/slok/sbxmon/internal/storage/sqlite"
)

type TaskStatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	format string
}

// NewTaskStatusCommand returns the task status command.
func NewTaskStatusCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskStatusCommand {
	c := &TaskStatusCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("status", "Show the reconciled detail of a task.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c TaskStatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskStatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	// The fetched detail warms the persistent cache so a following watch
	// starts with it.
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	store, err := cache.NewStore(cache.StoreConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create cache store: %w", err)
	}

	svc, err := taskstatus.NewService(taskstatus.ServiceConfig{
		Client: client,
		Cache:  store,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	status, err := svc.Run(ctx, taskstatus.Request{TaskID: c.taskID})
	if err != nil {
		return fmt.Errorf("could not get task status: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintTaskStatus(status.Task, status.Steps, status.Output); err != nil {
		return fmt.Errorf("could not print status: %w", err)
	}

	return nil
}
