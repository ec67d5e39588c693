package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/condor/w3g-dota/internal/config"
	"github.com/condor/w3g-dota/pkg/dota"
	"github.com/condor/w3g-dota/pkg/w3g"
)

var (
	configPath string
	unitsPath  string
	workers    int
	strict     bool
	verbose    bool
	asJSON     bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "w3gdota",
		Short:        "Decode Warcraft III DotA replays",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config")
	root.PersistentFlags().StringVar(&unitsPath, "units", "", "path to unit dataset (overrides config)")
	root.PersistentFlags().IntVar(&workers, "workers", -1, "block decompression workers (overrides config)")
	root.PersistentFlags().BoolVar(&strict, "strict", false, "fail on unknown top-level blocks")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON")

	root.AddCommand(statsCmd(), infoCmd(), eventsCmd())
	return root
}

func loadConfig() (config.Config, error) {
	conf := config.Default()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return conf, errors.Wrap(err, "opening config")
		}
		defer f.Close()
		if conf, err = config.Load(f); err != nil {
			return conf, errors.Wrapf(err, "loading config %s", configPath)
		}
	}
	if unitsPath != "" {
		conf.UnitsPath = unitsPath
	}
	if workers >= 0 {
		conf.Decoder.Workers = workers
	}
	if strict {
		conf.Decoder.Strict = true
	}
	if verbose {
		conf.LogLevel = config.LogLevel(log.DebugLevel)
	}
	log.SetLevel(log.Level(conf.LogLevel))
	return conf, nil
}

func newParser(conf config.Config) *w3g.Parser {
	p := w3g.NewParser()
	p.Workers = conf.Decoder.Workers
	p.Strict = conf.Decoder.Strict
	return p
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <replay.w3g>",
		Short: "Print per-player DotA statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			var units dota.UnitLookup
			table, err := dota.LoadUnitsFile(conf.UnitsPath)
			if err != nil {
				log.WithError(err).Warn("unit dataset unavailable, heroes will be unknown")
			} else {
				log.WithField("units", table.Len()).Debug("loaded unit dataset")
				units = table
			}

			match, err := dota.ParseFile(cmd.Context(), newParser(conf), args[0], units)
			if err != nil {
				return errors.Wrapf(err, "decoding %s", args[0])
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), match)
			}
			printMatch(cmd.OutOrStdout(), match)
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <replay.w3g>",
		Short: "Print header and lobby information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			replay, err := newParser(conf).ParseContext(cmd.Context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "decoding %s", args[0])
			}
			if asJSON {
				out, err := replay.ToJSON(true)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			out := cmd.OutOrStdout()
			settings := replay.Static.DecodeSettings()
			fmt.Fprintf(out, "Game:     %s\n", replay.Static.GameName)
			fmt.Fprintf(out, "Map:      %s\n", settings.MapName)
			fmt.Fprintf(out, "Version:  %s (build %d)\n", replay.Header.VersionString(), replay.Header.BuildNumber)
			fmt.Fprintf(out, "Duration: %s\n", w3g.FormatDuration(replay.Header.DurationMs))
			for _, slot := range replay.Static.Slots {
				if slot.Status != w3g.SlotUsed {
					continue
				}
				name := "Computer"
				if p := replay.Static.Player(slot.PlayerID); p != nil && !slot.IsComputer {
					name = p.Name
				}
				fmt.Fprintf(out, "  color %2d team %2d  %s\n", slot.Color, slot.Team, name)
			}
			return nil
		},
	}
}

func eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events <replay.w3g>",
		Short: "List chat messages and DotA events in game order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			replay, err := newParser(conf).ParseContext(cmd.Context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "decoding %s", args[0])
			}

			out := cmd.OutOrStdout()
			for _, ev := range replay.Events {
				switch e := ev.(type) {
				case *w3g.ChatMessage:
					fmt.Fprintf(out, "%8s [%s] %s: %s\n", w3g.FormatDuration(e.TimeMs), e.ModeName(), e.PlayerName, e.Text)
				case *w3g.LeaveGame:
					fmt.Fprintf(out, "%8s player %d left (%s)\n", w3g.FormatDuration(e.TimeMs), e.PlayerID, e.Result)
				case *w3g.TimeSlot:
					for _, block := range e.Blocks {
						for _, action := range block.Actions {
							info, ok := action.(*w3g.DotaInfoAction)
							if !ok {
								continue
							}
							if line := describeUpdate(info.Update); line != "" {
								fmt.Fprintf(out, "%8s %s\n", w3g.FormatDuration(e.TimeMs), line)
							}
						}
					}
				}
			}
			return nil
		},
	}
}

func describeUpdate(u w3g.StatUpdate) string {
	switch u := u.(type) {
	case *w3g.ModeAnnouncement:
		return "mode " + u.Mode
	case *w3g.HeroKill:
		return fmt.Sprintf("color %d killed color %d", u.Killer, u.Victim)
	case *w3g.HeroAssist:
		return fmt.Sprintf("color %d assisted against color %d", u.Actor, u.Victim)
	case *w3g.TowerDestroyed:
		return fmt.Sprintf("color %d destroyed tower %s", u.Owner, u.Code)
	}
	return ""
}

func printMatch(w io.Writer, m *dota.Match) {
	fmt.Fprintf(w, "%s (mode %s)\n", m.GameName, m.Mode)
	for _, p := range m.Ordered() {
		fmt.Fprintf(w, "%2d %-16s %-24s K/D/A %d/%d/%d  CS %d/%d/%d  gold %d  towers %d\n",
			p.Color, p.Name, p.Hero.Name,
			p.Kills, p.Deaths, p.Assists,
			p.CreepKills, p.CreepDenies, p.CreepNeutralKills,
			p.Gold, p.Towers)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
