package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/mcoot/rinkbook/internal/model"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game"},
		Short:   "Game commands",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesScoreCmd())
	cmd.AddCommand(newGamesFinishCmd())
	cmd.AddCommand(newGamesUpdateCmd())
	cmd.AddCommand(newGamesDeleteCmd())
	cmd.AddCommand(newGamesDeleteAllCmd())

	return cmd
}

func gamePath(id string) string {
	return "/api/games/" + url.PathEscape(id)
}

func newGamesListCmd() *cobra.Command {
	var teamID, gameType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if teamID != "" {
				q.Set("teamId", teamID)
			}
			if cmd.Flags().Changed("type") {
				q.Set("type", gameType)
			}

			path := "/api/games"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result []model.Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Only games for this team")
	cmd.Flags().StringVar(&gameType, "type", "", "Only games of this type")
	return cmd
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.Game
			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

// payloadFlags are the game fields settable from the command line. Any
// flag given overrides the same field from --file.
type payloadFlags struct {
	file     string
	teamID   string
	gameType string
	date     string
	opponent string
}

func (f *payloadFlags) register(cmd *cobra.Command, withTeam bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON payload file, or - for stdin")
	if withTeam {
		cmd.Flags().StringVar(&f.teamID, "team", "", "Team id")
	}
	cmd.Flags().StringVar(&f.gameType, "type", "", "Game type")
	cmd.Flags().StringVar(&f.date, "date", "", "Game date (RFC 3339)")
	cmd.Flags().StringVar(&f.opponent, "opponent", "", "Opponent team name")
}

func (f *payloadFlags) build(cmd *cobra.Command) (map[string]any, error) {
	payload := map[string]any{}

	if f.file != "" {
		var r io.Reader = cmd.InOrStdin()
		if f.file != "-" {
			file, err := os.Open(f.file)
			if err != nil {
				return nil, err
			}
			defer func() { _ = file.Close() }()
			r = file
		}
		if err := json.NewDecoder(r).Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid payload file: %w", err)
		}
	}

	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			payload[key] = value
		}
	}
	set("team", "teamId", f.teamID)
	set("type", "gameType", f.gameType)
	set("date", "gameDate", f.date)
	set("opponent", "opponentTeamName", f.opponent)

	return payload, nil
}

func newGamesCreateCmd() *cobra.Command {
	var flags payloadFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a new game",
		Long: `Schedule a new game. The lineup and opponent roster come from a JSON
payload file; the other fields may be given as flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := flags.build(cmd)
			if err != nil {
				return err
			}

			var result model.Game
			if err := client.Post("/api/games", payload, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func parseScore(us, them string) (map[string]float64, error) {
	u, err := cast.ToFloat64E(us)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", us)
	}
	t, err := cast.ToFloat64E(them)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", them)
	}
	return map[string]float64{"us": u, "them": t}, nil
}

func newGamesScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <id> <us> <them>",
		Short: "Record the live score",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseScore(args[1], args[2])
			if err != nil {
				return err
			}

			var result model.Game
			if err := client.Put(gamePath(args[0])+"/score", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamesFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id> <us> <them>",
		Short: "Record the final score",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseScore(args[1], args[2])
			if err != nil {
				return err
			}

			var result FinishResult
			if err := client.Put(gamePath(args[0])+"/finish", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamesUpdateCmd() *cobra.Command {
	var flags payloadFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a game's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := flags.build(cmd)
			if err != nil {
				return err
			}

			var result model.Game
			if err := client.Put(gamePath(args[0]), payload, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newGamesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MessageResult
			if err := client.Delete(gamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamesDeleteAllCmd() *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every game for a team, or every game when no team is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/games"
			if teamID != "" {
				path += "?" + url.Values{"teamId": {teamID}}.Encode()
			}

			var result MessageResult
			if err := client.Delete(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Only delete this team's games")
	return cmd
}
