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

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// setupCommand initializes the local database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize the history cache database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// generateCommand handles newsletter generation runs
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Newsletter generation operations",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Start a generation and follow its progress",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "Template ID to render with",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Newsletter title override",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Publication mode (draft, publish, email, email+publish)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the published post in a browser when done",
					},
				},
				Action: r.GenerateRun,
			},
			{
				Name:  "preview",
				Usage: "Render a newsletter preview without publishing",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "Template ID to render with",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the rendered HTML to a file",
					},
				}, jsonFlags()...),
				Action: r.GeneratePreview,
			},
			{
				Name:  "cancel",
				Usage: "Cancel a running generation",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.GenerateCancel,
			},
			{
				Name:  "status",
				Usage: "Show the status of a generation run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.GenerateStatus,
			},
			{
				Name:  "watch",
				Usage: "Attach to a running generation's progress stream",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.GenerateWatch,
			},
		},
	}
}

// templatesCommand handles newsletter template management
func templatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"tpl"},
		Usage:   "Newsletter template operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registered templates",
				Flags:  jsonFlags(),
				Action: r.TemplatesList,
			},
			{
				Name:  "get",
				Usage: "Show a template",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.TemplatesGet,
			},
			{
				Name:  "create",
				Usage: "Register a template from an HTML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Template name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the template HTML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Template description",
					},
				},
				Action: r.TemplatesCreate,
			},
			{
				Name:  "update",
				Usage: "Update a template's name, description, or content",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New template name",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to replacement template HTML",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "New template description",
					},
				},
				Action: r.TemplatesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a template",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TemplatesDelete,
			},
			{
				Name:  "preview",
				Usage: "Render a template preview",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the rendered HTML to a file",
					},
				},
				Action: r.TemplatesPreview,
			},
			{
				Name:   "scan",
				Usage:  "Rescan the backend template directory",
				Action: r.TemplatesScan,
			},
			{
				Name:  "labels",
				Usage: "Assign labels to a template",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "label",
						Usage: "Label ID to assign (repeatable, empty clears all)",
					},
				},
				Action: r.TemplatesLabels,
			},
		},
	}
}

// schedulesCommand handles recurring generation schedules
func schedulesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "schedules",
		Aliases: []string{"sched"},
		Usage:   "Generation schedule operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List schedules",
				Flags:  jsonFlags(),
				Action: r.SchedulesList,
			},
			{
				Name:  "get",
				Usage: "Show a schedule",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.SchedulesGet,
			},
			{
				Name:  "create",
				Usage: "Create a schedule",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Schedule name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "cron",
						Usage:    "CRON expression",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "Template ID the schedule renders with",
					},
					&cli.BoolFlag{
						Name:  "enabled",
						Usage: "Enable the schedule immediately",
						Value: true,
					},
				},
				Action: r.SchedulesCreate,
			},
			{
				Name:  "update",
				Usage: "Update a schedule",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New schedule name",
					},
					&cli.StringFlag{
						Name:  "cron",
						Usage: "New CRON expression",
					},
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "New template ID",
					},
					&cli.BoolFlag{
						Name:  "enabled",
						Usage: "Enable or disable the schedule",
					},
				},
				Action: r.SchedulesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a schedule",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SchedulesDelete,
			},
			{
				Name:  "toggle",
				Usage: "Enable or disable a schedule",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SchedulesToggle,
			},
			{
				Name:  "run",
				Usage: "Execute a schedule immediately",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SchedulesRun,
			},
			{
				Name:  "next",
				Usage: "Show upcoming fire times for a schedule",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of upcoming runs to show",
						Value: 5,
					},
				},
				Action: r.SchedulesNext,
			},
			{
				Name:  "validate",
				Usage: "Validate a CRON expression",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "expression"},
				},
				Action: r.SchedulesValidate,
			},
		},
	}
}

// historyCommand handles generation history and the local cache
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Generation history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List generation runs",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (pending, running, success, failed, cancelled)",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Filter by type (manual, scheduled)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the backend",
					},
				}, jsonFlags()...),
				Action: r.HistoryList,
			},
			{
				Name:  "get",
				Usage: "Show a generation run and its step log",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.HistoryGet,
			},
			{
				Name:      "delete",
				Usage:     "Delete generation runs",
				ArgsUsage: "<id>...",
				Action:    r.HistoryDelete,
			},
			{
				Name:      "export",
				Usage:     "Export generation runs to files",
				ArgsUsage: "[<id>...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every run the backend returns",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (json, csv, markdown, txt)",
						Value: "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent export workers",
						Value: 5,
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "sync",
				Usage: "Refresh the local history cache from the backend",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to fetch",
						Value: 100,
					},
				},
				Action: r.HistorySync,
			},
			{
				Name:  "prune",
				Usage: "Remove old runs from the local cache",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "older-than",
						Usage: "Remove cached runs older than this many days",
						Value: 90,
					},
				},
				Action: r.HistoryPrune,
			},
		},
	}
}

// labelsCommand handles template labels
func labelsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "labels",
		Usage: "Template label operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List labels",
				Flags:  jsonFlags(),
				Action: r.LabelsList,
			},
			{
				Name:  "create",
				Usage: "Create a label",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Label name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "Label color (hex)",
					},
				},
				Action: r.LabelsCreate,
			},
			{
				Name:  "update",
				Usage: "Rename or recolor a label",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New label name",
					},
					&cli.StringFlag{
						Name:  "color",
						Usage: "New label color (hex)",
					},
				},
				Action: r.LabelsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a label",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LabelsDelete,
			},
		},
	}
}

// settingsCommand handles backend integration settings
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Backend settings operations",
		Commands: []*cli.Command{
			{
				Name:   "services",
				Usage:  "List configured service integrations",
				Flags:  jsonFlags(),
				Action: r.SettingsServices,
			},
			{
				Name:  "test",
				Usage: "Test service connections",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "service"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Test every configured service",
					},
				},
				Action: r.SettingsTest,
			},
			{
				Name:   "preferences",
				Usage:  "Show operator preferences",
				Flags:  jsonFlags(),
				Action: r.SettingsPreferences,
			},
			{
				Name:  "retention",
				Usage: "Show or update history retention",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Set the retention window in days",
					},
					&cli.BoolFlag{
						Name:  "enabled",
						Usage: "Enable automatic pruning",
					},
					&cli.BoolFlag{
						Name:  "set",
						Usage: "Apply --days/--enabled instead of printing",
					},
				},
				Action: r.SettingsRetention,
			},
			{
				Name:  "backup",
				Usage: "Export backend settings to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "ghostarr_settings.json",
					},
				},
				Action: r.SettingsBackup,
			},
			{
				Name:  "restore",
				Usage: "Import backend settings from a file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Action: r.SettingsRestore,
			},
		},
	}
}

// logsCommand handles backend application logs
func logsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Backend log operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List backend log entries",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "level",
						Usage: "Filter by level (debug, info, warning, error)",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by message substring",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to return",
						Value: 50,
					},
				}, jsonFlags()...),
				Action: r.LogsList,
			},
			{
				Name:   "stats",
				Usage:  "Show log volume by level",
				Flags:  jsonFlags(),
				Action: r.LogsStats,
			},
			{
				Name:  "purge",
				Usage: "Delete old backend log entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "older-than",
						Usage: "Delete entries older than this many days",
						Value: 30,
					},
				},
				Action: r.LogsPurge,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the Ghostarr backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  jsonFlags(),
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST to the backend",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				}, jsonFlags()...),
				Action: r.APIPost,
			},
			{
				Name:  "delete",
				Usage: "Direct DELETE to the backend",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  jsonFlags(),
				Action: r.APIDelete,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive generation UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Preselect a template ID",
			},
		},
		Action: r.TUI,
	}
}
