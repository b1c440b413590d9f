package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/repositories"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
	"github.com/uniworld/cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIClient
	service    *services.UniWorldService
	assistant  *services.AssistantService
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.CatalogEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIClient
	Service    *services.UniWorldService
	Assistant  *services.AssistantService
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIClient(services.APIClientOpts{
			BaseURL:   opts.Config.API.BaseURL,
			RateLimit: opts.Config.API.RateLimit,
			Client:    opts.HTTPClient,
		})
	}
	if opts.Service == nil {
		opts.Service = services.NewUniWorldService(opts.API, opts.Logger)
	}
	if opts.Assistant == nil {
		opts.Assistant = services.NewAssistantService(opts.API, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		service:    opts.Service,
		assistant:  opts.Assistant,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     tasks.NewCatalogEngine(opts.Service),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, catalogCommand, searchCommand, favoritesCommand,
		emailCommand, oauthCommand, subscriptionCommand, settingsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database lazily opens the configured sqlite database and applies
// migrations so every command sees the current schema.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

func (r *Runner) sessions() (*repositories.SessionRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewSessionRepository(db), nil
}

func (r *Runner) favorites() (*repositories.FavoriteRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewFavoriteRepository(db), nil
}

func (r *Runner) accounts() (*repositories.EmailAccountRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewEmailAccountRepository(db), nil
}

func (r *Runner) history() (*repositories.EmailHistoryRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewEmailHistoryRepository(db), nil
}

func (r *Runner) settings() (*repositories.SettingsRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewSettingsRepository(db), nil
}

func (r *Runner) outreach() (*tasks.OutreachEngine, error) {
	sessions, err := r.sessions()
	if err != nil {
		return nil, err
	}
	accounts, err := r.accounts()
	if err != nil {
		return nil, err
	}
	history, err := r.history()
	if err != nil {
		return nil, err
	}

	return tasks.NewOutreachEngine(tasks.OutreachOpts{
		Catalog:  r.service,
		Mailer:   r.service,
		Sessions: sessions,
		Accounts: accounts,
		History:  history,
	}), nil
}

// restoreSession loads the stored session and installs its token on the
// API client. Stale tokens drop the session back to anonymous instead
// of failing on the first request.
func (r *Runner) restoreSession() (models.Session, error) {
	sessions, err := r.sessions()
	if err != nil {
		return models.AnonymousSession(), err
	}

	session, err := sessions.Load()
	if err != nil {
		return models.AnonymousSession(), err
	}

	if session.Authenticated() && shared.TokenExpired(session.Token, time.Now()) {
		r.logger.Warn("stored session expired, logging out")
		if err := sessions.Clear(); err != nil {
			return models.AnonymousSession(), err
		}
		return models.AnonymousSession(), nil
	}

	if session.Authenticated() {
		r.api.SetToken(session.Token)
		if r.config.API.CSRFToken != "" {
			r.api.SetCSRFToken(r.config.API.CSRFToken)
		}
	}

	return session, nil
}

// requireSession restores the session and fails if nobody is logged in.
func (r *Runner) requireSession() (models.Session, error) {
	session, err := r.restoreSession()
	if err != nil {
		return session, err
	}
	if !session.Authenticated() {
		return session, fmt.Errorf("%w: run 'uniworld auth login' first", shared.ErrNotAuthenticated)
	}
	return session, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
