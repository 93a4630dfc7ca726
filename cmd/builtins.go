package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aallbrig/clause/models"
)

// Run priorities of the built-in modifiers. Logging is set up before
// anything else can log.
const (
	logLevelPriority = 100
	noColorPriority  = 50
)

// builtins returns the commands every command set gets unless the manifest
// declares a global of the same name or alias.
func builtins(a *app) []models.Command {
	return []models.Command{
		&models.GlobalModifierCommand{
			GlobalCommand: models.GlobalCommand{
				Base: models.Base{
					Name:        "log-level",
					Description: "Set the log level for this run",
					Run: func(_ context.Context, args models.Args, _ models.Env) error {
						lvl, err := zerolog.ParseLevel(fmt.Sprint(args["level"]))
						if err != nil {
							return err
						}
						zerolog.SetGlobalLevel(lvl)
						log.Debug().Stringer("level", lvl).Msg("log level changed")
						return nil
					},
				},
				Argument: &models.GlobalArgument{Argument: models.Argument{
					Name:        "level",
					ValidValues: []models.Value{"debug", "info", "warn", "error"},
				}},
			},
			RunPriority: logLevelPriority,
		},
		&models.GlobalModifierCommand{
			GlobalCommand: models.GlobalCommand{
				Base: models.Base{
					Name:        "no-color",
					Description: "Disable color output for this run",
					Run: func(context.Context, models.Args, models.Env) error {
						a.console.SetNoColor(true)
						return nil
					},
				},
			},
			RunPriority: noColorPriority,
		},
		&models.GlobalCommand{
			Base: models.Base{
				Name:        "version",
				Description: "Print version information",
				Run: func(context.Context, models.Args, models.Env) error {
					_, err := fmt.Fprintln(a.out, versionString())
					return err
				},
			},
			ShortAlias: "V",
		},
	}
}

// taken reports whether a global name or alias of c is already registered.
func (a *app) taken(c models.Command) bool {
	g, ok := models.Global(c)
	if !ok {
		return false
	}
	if _, found := a.registry.LookupGlobal(g.Name); found {
		return true
	}
	if g.ShortAlias != "" {
		if _, found := a.registry.LookupGlobal(g.ShortAlias); found {
			return true
		}
	}
	return false
}
