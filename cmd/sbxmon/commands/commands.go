package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/conventions"
	"github.com/slok/sbxmon/internal/log"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	APIURL     string
	Token      string
	DBPath     string
	PrefsPath  string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	app.Flag("api-url", "Base URL of the task execution API.").Envar("SBXMON_API_URL").Default("http://localhost:8420").StringVar(&c.APIURL)
	app.Flag("token", "Bearer token for the task execution API.").Envar("SBXMON_TOKEN").StringVar(&c.Token)

	home := homedir.HomeDir()
	app.Flag("db-path", "Path to the SQLite cache database file.").Envar("SBXMON_DB_PATH").Default(conventions.DBPath(home)).StringVar(&c.DBPath)
	app.Flag("prefs-path", "Path to the preferences file.").Envar("SBXMON_PREFS_PATH").Default(conventions.PrefsPath(home)).StringVar(&c.PrefsPath)

	return c
}

// NewAPIClient creates the HTTP API client from the global configuration.
func (c *RootCommand) NewAPIClient() (apiclient.Client, error) {
	client, err := apiclient.NewHTTPClient(apiclient.HTTPClientConfig{
		BaseURL: c.APIURL,
		Token:   c.Token,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create API client: %w", err)
	}
	return client, nil
}
