package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/job"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string        { return "migrate" }
func (c *MigrateCommand) Usage() string       { return "migrate" }
func (c *MigrateCommand) Description() string { return "Apply pending schema migrations" }

// Run has nothing left to do: NewApp migrates the configured store before any command runs
func (c *MigrateCommand) Run(app *App, args []string) error {
	PrintSuccess("Schema for %s storage is up to date", app.cfg.StorageDriver)
	return nil
}

type JoinCommand struct{}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Usage() string       { return "join <player-id> <job>" }
func (c *JoinCommand) Description() string { return "Enroll a player in a job, honoring the job cooldown" }

func (c *JoinCommand) Run(app *App, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	playerID, err := parsePlayerID(args[0])
	if err != nil {
		return err
	}
	jobKey := args[1]

	if err := app.jobs.CheckJobCooldown(app.ctx, playerID, jobKey); err != nil {
		return err
	}
	if err := app.jobs.JoinJob(app.ctx, playerID, jobKey); err != nil {
		return err
	}

	count, err := app.jobs.JobCount(app.ctx, playerID)
	if err != nil {
		return err
	}
	PrintSuccess("Joined %s (%d active jobs)", jobKey, count)
	return nil
}

type LeaveCommand struct{}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Usage() string       { return "leave <player-id> <job>" }
func (c *LeaveCommand) Description() string { return "Deactivate a job, keeping its experience" }

func (c *LeaveCommand) Run(app *App, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	playerID, err := parsePlayerID(args[0])
	if err != nil {
		return err
	}

	has, err := app.jobs.HasJob(app.ctx, playerID, args[1])
	if err != nil {
		return err
	}
	if !has {
		PrintWarning("Player is not working as %s", args[1])
		return nil
	}

	if err := app.jobs.LeaveJob(app.ctx, playerID, args[1]); err != nil {
		return err
	}
	PrintSuccess("Left %s", args[1])
	return nil
}

type AwardCommand struct{}

func (c *AwardCommand) Name() string        { return "award" }
func (c *AwardCommand) Usage() string       { return "award <player-id> <job> <amount>" }
func (c *AwardCommand) Description() string { return "Award experience and show the resulting progress" }

func (c *AwardCommand) Run(app *App, args []string) error {
	if len(args) != 3 {
		return usageError(c)
	}
	playerID, err := parsePlayerID(args[0])
	if err != nil {
		return err
	}
	cfg, err := app.jobConfig(args[1])
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: amount %q is not an integer", domain.ErrInvalidInput, args[2])
	}

	view, err := app.jobs.AwardExperienceAndPresent(app.ctx, playerID, cfg, amount)
	if err != nil {
		return err
	}
	defer app.jobs.PlayerDisconnected(app.ctx, playerID)

	if !view.Enrolled {
		PrintWarning("Player never joined %s, no experience awarded", cfg.Key)
	}

	switch view.Outcome {
	case domain.LevelOutcomeLeveledUp:
		PrintSuccess("%s reached level %d", cfg.Label, view.Level)
	case domain.LevelOutcomeMaxLevelReached:
		PrintSuccess("%s reached the maximum level %d", cfg.Label, view.MaxLevel)
	}
	printer.Printf("%s | Level %d (%d / %d)  %s\n", view.Label, view.Level, view.Experience, view.NextLevelExperience, progressBar(view.Progress))
	return nil
}

type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Usage() string       { return "status <player-id>" }
func (c *StatusCommand) Description() string { return "List every job with the player's level and cooldown" }

func (c *StatusCommand) Run(app *App, args []string) error {
	if len(args) != 1 {
		return usageError(c)
	}
	playerID, err := parsePlayerID(args[0])
	if err != nil {
		return err
	}

	infos, err := app.jobs.GetPlayerJobs(app.ctx, playerID)
	if err != nil {
		return err
	}

	PrintHeader("Jobs of " + playerID.String())
	for _, info := range infos {
		state := "-"
		switch {
		case info.Active:
			state = "active"
		case info.Enrolled:
			state = "inactive"
		}
		line := printer.Sprintf("  %-12s %-9s lvl %3d  %d/%d  %s", info.Label, state, info.View.Level,
			info.View.Experience, info.View.NextLevelExperience, progressBar(info.View.Progress))
		if info.CooldownMinutes > 0 {
			line += fmt.Sprintf("  cooldown %dh %dm", info.CooldownMinutes/60, info.CooldownMinutes%60)
		}
		fmt.Println(line)
	}
	return nil
}

type CooldownCommand struct{}

func (c *CooldownCommand) Name() string        { return "cooldown" }
func (c *CooldownCommand) Usage() string       { return "cooldown <player-id> <job>" }
func (c *CooldownCommand) Description() string { return "Show the minutes left before the job can change" }

func (c *CooldownCommand) Run(app *App, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	playerID, err := parsePlayerID(args[0])
	if err != nil {
		return err
	}

	minutes, err := app.jobs.GetCooldownMinutes(app.ctx, playerID, args[1])
	if err != nil {
		return err
	}
	if err := app.jobs.CheckJobCooldown(app.ctx, playerID, args[1]); err != nil {
		if errors.Is(err, domain.ErrOnCooldown) {
			PrintWarning("%v (%d minutes)", err, minutes)
			return nil
		}
		return err
	}
	PrintSuccess("No cooldown on %s (%d minutes)", args[1], minutes)
	return nil
}

type LevelsCommand struct{}

func (c *LevelsCommand) Name() string        { return "levels" }
func (c *LevelsCommand) Usage() string       { return "levels <job> [count]" }
func (c *LevelsCommand) Description() string { return "Print the experience curve of a job" }

func (c *LevelsCommand) Run(app *App, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageError(c)
	}
	cfg, err := app.jobConfig(args[0])
	if err != nil {
		return err
	}

	count := defaultLevelsShown
	if len(args) == 2 {
		if count, err = strconv.Atoi(args[1]); err != nil || count < 1 {
			return fmt.Errorf("%w: count %q must be a positive integer", domain.ErrInvalidInput, args[1])
		}
	}
	if count > cfg.MaxLevel {
		count = cfg.MaxLevel
	}

	PrintHeader(fmt.Sprintf("%s (max level %d)", cfg.Label, cfg.MaxLevel))
	for level := 0; level < count; level++ {
		next := job.ComputeExperienceForLevel(cfg, level)
		printer.Printf("  level %3d -> %3d above %d experience\n", level, level+1, next)
	}
	return nil
}

// printer groups digits in experience numbers
var printer = message.NewPrinter(language.English)

const (
	defaultLevelsShown = 10
	progressBarWidth   = 20
)

func parsePlayerID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: player id %q is not a UUID", domain.ErrInvalidInput, raw)
	}
	return id, nil
}

func progressBar(progress float64) string {
	filled := int(progress * progressBarWidth)
	bar := make([]byte, progressBarWidth)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return "[" + string(bar) + "]"
}
