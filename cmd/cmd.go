// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Create a config.toml from the embedded template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication and profile",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with username or email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Username or email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the local session (favorites and linked accounts are kept)",
				Action: r.AuthLogout,
			},
			{
				Name:  "change-password",
				Usage: "Change the account password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Required: true, Usage: "Current password"},
					&cli.StringFlag{Name: "new", Required: true, Usage: "New password"},
				},
				Action: r.AuthChangePassword,
			},
			{
				Name:   "profile",
				Usage:  "Show the current user profile",
				Flags:  outputFlags(),
				Action: r.AuthProfile,
			},
			{
				Name:  "update-profile",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: r.AuthUpdateProfile,
			},
		},
	}
}

// catalogCommand lists reference data from the backend
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Browse universities, programs and filters",
		Commands: []*cli.Command{
			{
				Name:   "universities",
				Usage:  "List universities",
				Flags:  outputFlags(),
				Action: r.CatalogUniversities,
			},
			{
				Name:  "programs",
				Usage: "List programs",
				Flags: append(outputFlags(), &cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum number of programs to print",
				}),
				Action: r.CatalogPrograms,
			},
			{
				Name:   "countries",
				Usage:  "List available countries",
				Flags:  outputFlags(),
				Action: r.CatalogCountries,
			},
			{
				Name:   "fields",
				Usage:  "List available fields of study",
				Flags:  outputFlags(),
				Action: r.CatalogFields,
			},
			{
				Name:  "coordinators",
				Usage: "List coordinators for a program",
				Flags: append(outputFlags(), &cli.StringFlag{
					Name:     "program",
					Usage:    "Program key, e.g. MIT_CS_01",
					Required: true,
				}),
				Action: r.CatalogCoordinators,
			},
			{
				Name:   "load",
				Usage:  "Load the full catalog and report per-endpoint failures",
				Action: r.CatalogLoad,
			},
		},
	}
}

// searchCommand runs server-side program searches
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search programs with optional filters",
		Flags: append(outputFlags(),
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text query"},
			&cli.StringFlag{Name: "country", Usage: "Country filter"},
			&cli.StringFlag{Name: "field", Usage: "Field of study filter"},
			&cli.StringFlag{Name: "university", Usage: "University filter"},
			&cli.StringFlag{Name: "degree", Usage: "Degree level filter"},
			&cli.StringFlag{Name: "language", Usage: "Teaching language filter"},
			&cli.IntFlag{Name: "pages", Value: 1, Usage: "How many result pages to reveal"},
			&cli.BoolFlag{Name: "all", Usage: "Reveal every result"},
		),
		Action: r.Search,
	}
}

// favoritesCommand manages locally stored favorite programs
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite programs",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite programs",
				Flags:  outputFlags(),
				Action: r.FavoritesList,
			},
			{
				Name:  "toggle",
				Usage: "Add or remove a program from favorites",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "program",
						Usage:    "Program ID",
						Required: true,
					},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:   "clear",
				Usage:  "Remove all favorites",
				Action: r.FavoritesClear,
			},
			{
				Name:  "export",
				Usage: "Export favorites to CSV, Markdown or plain text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file base name",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// emailCommand covers sending, history, templates and draft assistance
func emailCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "email",
		Usage: "Send coordinator outreach email",
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Send one email to a program coordinator",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "program", Usage: "Program ID", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Coordinator email address", Required: true},
					&cli.StringFlag{Name: "subject", Usage: "Email subject"},
					&cli.StringFlag{Name: "body", Usage: "Email body"},
					&cli.StringFlag{Name: "template", Usage: "Canned template (inquiry, admission, scholarship)"},
				},
				Action: r.EmailSend,
			},
			{
				Name:  "bulk",
				Usage: "Send one email to every coordinator of the given programs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "programs",
						Usage:    "Comma-separated program IDs",
						Required: true,
					},
					&cli.StringFlag{Name: "subject", Usage: "Email subject"},
					&cli.StringFlag{Name: "body", Usage: "Email body"},
					&cli.StringFlag{Name: "template", Usage: "Canned template (inquiry, admission, scholarship)"},
				},
				Action: r.EmailBulk,
			},
			{
				Name:  "history",
				Usage: "Show sent email history",
				Flags: append(outputFlags(), &cli.StringFlag{
					Name:    "export",
					Aliases: []string{"o"},
					Usage:   "Export history to CSV with this base name",
				}),
				Action: r.EmailHistory,
			},
			{
				Name:  "template",
				Usage: "Show a canned email template",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "program", Usage: "Fill placeholders from this program"},
				},
				Action: r.EmailTemplate,
			},
			{
				Name:  "suggest",
				Usage: "Generate an email draft with the assistant",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "program", Usage: "Program ID", Required: true},
					&cli.IntFlag{Name: "coordinator", Usage: "Coordinator ID", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Email type (inquiry, admission, scholarship)", Value: "inquiry"},
					&cli.StringFlag{Name: "language", Usage: "Draft language"},
				},
				Action: r.EmailSuggest,
			},
			{
				Name:  "subjects",
				Usage: "Generate subject line options with the assistant",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "program", Usage: "Program ID", Required: true},
					&cli.IntFlag{Name: "coordinator", Usage: "Coordinator ID", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Email type (inquiry, admission, scholarship)", Value: "inquiry"},
					&cli.IntFlag{Name: "count", Usage: "Number of options", Value: 3},
				},
				Action: r.EmailSubjects,
			},
			{
				Name:  "enhance",
				Usage: "Rework an existing draft with the assistant",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "program", Usage: "Program ID", Required: true},
					&cli.IntFlag{Name: "coordinator", Usage: "Coordinator ID", Required: true},
					&cli.StringFlag{Name: "body", Usage: "Current draft body", Required: true},
					&cli.StringFlag{Name: "style", Usage: "Enhancement style (improve, shorten, formal, friendly)", Value: "improve"},
				},
				Action: r.EmailEnhance,
			},
		},
	}
}

// oauthCommand links and inspects mail provider accounts
func oauthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "oauth",
		Usage: "Link Gmail or Outlook for sending",
		Commands: []*cli.Command{
			{
				Name:  "connect",
				Usage: "Connect a mail provider with OAuth2",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.OAuthConnect,
			},
			{
				Name:  "disconnect",
				Usage: "Disconnect a mail provider",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Action: r.OAuthDisconnect,
			},
			{
				Name:   "status",
				Usage:  "Show provider token status from the backend",
				Flags:  outputFlags(),
				Action: r.OAuthStatus,
			},
			{
				Name:  "refresh",
				Usage: "Refresh a provider token on the backend",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Action: r.OAuthRefresh,
			},
		},
	}
}

// subscriptionCommand manages the local subscription state
func subscriptionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "subscription",
		Aliases: []string{"sub"},
		Usage:   "Inspect and select subscription plans",
		Commands: []*cli.Command{
			{
				Name:   "plans",
				Usage:  "List available plans and their email quotas",
				Action: r.SubscriptionPlans,
			},
			{
				Name:  "select",
				Usage: "Activate a plan",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "plan"},
				},
				Action: r.SubscriptionSelect,
			},
			{
				Name:   "status",
				Usage:  "Show the current plan and remaining quota",
				Action: r.SubscriptionStatus,
			},
		},
	}
}

// settingsCommand manages stored preferences
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Manage stored preferences",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show stored preferences",
				Action: r.SettingsShow,
			},
			{
				Name:  "set",
				Usage: "Store a preference (default_provider, language)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsSet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive program discovery.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for program discovery and outreach",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Usage: "Bulk send subject"},
			&cli.StringFlag{Name: "body", Usage: "Bulk send body"},
			&cli.StringFlag{Name: "template", Usage: "Canned template for the bulk draft", Value: "inquiry"},
		},
		Action: r.TUI,
	}
}
