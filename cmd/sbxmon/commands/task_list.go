package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sbxmon/internal/app/tasklist"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/printer"
)

type TaskListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	statusFilter string
	limit        int
	format       string
}

// NewTaskListCommand returns the task list command.
func NewTaskListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskListCommand {
	c := &TaskListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List the latest tasks.")
	c.Cmd.Flag("status", "Filter by status (queued, processing, completed, failed, cancelled).").StringVar(&c.statusFilter)
	c.Cmd.Flag("limit", "Maximum number of tasks to list.").Default("50").IntVar(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c TaskListCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse status filter if provided.
	var statusFilter *model.TaskStatus
	if c.statusFilter != "" {
		status := model.TaskStatus(strings.ToLower(c.statusFilter))
		switch status {
		case model.TaskStatusQueued, model.TaskStatusProcessing, model.TaskStatusCompleted, model.TaskStatusFailed, model.TaskStatusCancelled:
			statusFilter = &status
		default:
			return fmt.Errorf("invalid status filter: %s (must be: queued, processing, completed, failed, cancelled)", c.statusFilter)
		}
	}

	client, err := c.rootCmd.NewAPIClient()
	if err != nil {
		return err
	}

	svc, err := tasklist.NewService(tasklist.ServiceConfig{
		Client: client,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	tasks, err := svc.Run(ctx, tasklist.Request{
		Limit:        c.limit,
		StatusFilter: statusFilter,
	})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintTaskList(tasks); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
