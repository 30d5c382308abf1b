package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contact-tracer/backend/internal/graph"
	"contact-tracer/backend/pkg/config"
	"contact-tracer/backend/pkg/logger"
)

// tracer is the slice of the graph repository the commands use
type tracer interface {
	EnsureSchema(ctx context.Context) error
	CreatePerson(ctx context.Context, p graph.NewPerson) (*graph.Person, error)
	CreateMeeting(ctx context.Context, m graph.NewMeeting) (*graph.Meeting, error)
	AddParticipant(ctx context.Context, phone string, meetingID int64) error
	FindPersonByPhone(ctx context.Context, phone string) (*graph.Person, error)
	ChangeStatus(ctx context.Context, id int64, status string) (*graph.Person, error)
	Contacts(ctx context.Context, phone string) ([]graph.Contact, error)
	MeetingWithParticipants(ctx context.Context, meetingID int64) (*graph.MeetingParticipants, error)
	ContactWindowDays() int
	Close(ctx context.Context) error
}

type openFunc func(ctx context.Context, cfg *config.Config, log *zap.Logger) (tracer, error)

type app struct {
	open   openFunc
	log    *zap.Logger
	tracer tracer

	verbose bool
	window  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{open: openRepository}
	err := a.rootCmd().ExecuteContext(ctx)
	a.close(context.Background())
	stop()

	if err != nil {
		os.Exit(1)
	}
}

func openRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (tracer, error) {
	driver, err := graph.NewDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, err
	}
	return graph.NewRepository(driver,
		graph.WithDatabase(cfg.Neo4jDatabase),
		graph.WithContactWindow(cfg.ContactWindowDays),
		graph.WithLogger(log),
	), nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracectl",
		Short: "Inspect and seed the contact tracing graph",
		Long: `tracectl talks to the same Neo4j database as the web server.

Connection settings come from the environment (or a .env file):
  NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, NEO4J_DATABASE, CONTACT_WINDOW_DAYS`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().IntVar(&a.window, "window", 0, "Override the contact window in days")

	root.AddCommand(
		a.schemaCmd(),
		a.seedCmd(),
		a.personCmd(),
		a.statusCmd(),
		a.contactsCmd(),
		a.participantsCmd(),
	)
	return root
}

// setup loads configuration, initializes logging and opens the repository
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.window > 0 {
		cfg.ContactWindowDays = a.window
	}

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	if err := logger.Init(cfg.Env, level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = logger.Get()

	t, err := a.open(cmd.Context(), cfg, a.log)
	if err != nil {
		return err
	}
	a.tracer = t
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Close(ctx); err != nil && a.log != nil {
			a.log.Warn("Failed to close Neo4j driver", zap.Error(err))
		}
		a.tracer = nil
	}
	logger.Sync()
}
