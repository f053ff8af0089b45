package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Coach commands (log in with shirt 0 first)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest persistent pre-run
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if cfg.Token == "" && cfg.AdminPassword == "" {
				return fmt.Errorf("not logged in as coach: run 'awards login --shirt 0 --pin <pin>' first or pass --admin-password")
			}
			return nil
		},
	}

	cmd.AddCommand(adminGetCmd("standings", "Show the vote standings", "/api/v1/admin/standings", func() any { return &response.Standings{} }))
	cmd.AddCommand(adminGetCmd("players", "List the team and who still has to vote", "/api/v1/admin/players", func() any { return &response.Roster{} }))
	cmd.AddCommand(adminGetCmd("messages", "Read the coach inbox", "/api/v1/admin/messages", func() any { return &response.Messages{} }))
	cmd.AddCommand(adminPostCmd("resync", "Recount all votes from the stored ballots", "/api/v1/admin/resync", func() any { return &response.Standings{} }))
	cmd.AddCommand(adminPostCmd("new-match", "Start a new round so everyone can vote again", "/api/v1/admin/new-match", func() any { return &response.Status{} }))
	cmd.AddCommand(adminPostCmd("seed", "Recreate the team with default PINs", "/api/v1/admin/seed", func() any { return &response.Status{} }))
	cmd.AddCommand(newAdminResetPINCmd())
	cmd.AddCommand(newAdminBonusCmd())
	cmd.AddCommand(newAdminNoteCmd())
	cmd.AddCommand(newEventsCmd())

	return cmd
}

// deref prints the value a result pointer points at, so text output picks the right printer
func deref(v any) any {
	switch r := v.(type) {
	case *response.Standings:
		return *r
	case *response.Roster:
		return *r
	case *response.Messages:
		return *r
	case *response.Status:
		return *r
	case *response.Vote:
		return *r
	case *response.Message:
		return *r
	default:
		return v
	}
}

func adminGetCmd(use, short, path string, result func() any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := result()
			if err := client.Get(cmd.Context(), path, res); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(deref(res))
			return nil
		},
	}
}

func adminPostCmd(use, short, path string, result func() any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := result()
			if err := client.Post(cmd.Context(), path, nil, res); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(deref(res))
			return nil
		},
	}
}

func parseShirtArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid shirt number %q", arg)
	}
	return n, nil
}

func playerPath(shirt int, action string) string {
	return fmt.Sprintf("/api/v1/admin/players/%d/%s", shirt, action)
}

func newAdminResetPINCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-pin <shirt>",
		Short: "Reset a player's PIN to the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shirt, err := parseShirtArg(args[0])
			if err != nil {
				return err
			}
			var result response.Status
			if err := client.Post(cmd.Context(), playerPath(shirt, "reset-pin"), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newAdminBonusCmd() *cobra.Command {
	var req request.BonusRequest

	cmd := &cobra.Command{
		Use:   "bonus <shirt>",
		Short: "Give a player a bonus point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shirt, err := parseShirtArg(args[0])
			if err != nil {
				return err
			}
			var result response.Vote
			if err := client.Post(cmd.Context(), playerPath(shirt, "bonus"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Reason, "reason", "", "Why they earned it; sent to the player (required)")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newAdminNoteCmd() *cobra.Command {
	var req request.NoteRequest

	cmd := &cobra.Command{
		Use:   "note <shirt>",
		Short: "Send a player a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shirt, err := parseShirtArg(args[0])
			if err != nil {
				return err
			}
			var result response.Message
			if err := client.Post(cmd.Context(), playerPath(shirt, "notes"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Text, "text", "", "Message text (required)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
