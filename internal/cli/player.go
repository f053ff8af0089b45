package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
)

// credentialFlags registers --shirt and --pin on a player command
func credentialFlags(cmd *cobra.Command, creds *request.Credentials) {
	cmd.Flags().IntVar(&creds.ShirtNumber, "shirt", -1, "Shirt number (required)")
	cmd.Flags().StringVar(&creds.PIN, "pin", "", "PIN (required)")
	_ = cmd.MarkFlagRequired("shirt")
	_ = cmd.MarkFlagRequired("pin")
}

func newLoginCmd() *cobra.Command {
	var creds request.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with shirt number and PIN",
		Long: `Check a shirt number and PIN.

Logging in with the coach's shirt number 0 saves a session token to the
token file for the admin commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Login
			if err := client.Post(cmd.Context(), "/api/v1/login", creds, &result); err != nil {
				return err
			}

			if result.AdminToken != "" {
				if err := cfg.SaveToken(result.AdminToken); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	credentialFlags(cmd, &creds)
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the coach session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Logged out")
			return nil
		},
	}
}

func newPINCmd() *cobra.Command {
	var req request.ChangePINRequest

	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Change your PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Status
			if err := client.Post(cmd.Context(), "/api/v1/pin", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&req.ShirtNumber, "shirt", -1, "Shirt number (required)")
	cmd.Flags().StringVar(&req.OldPIN, "old", "", "Current PIN (required)")
	cmd.Flags().StringVar(&req.NewPIN, "new", "", "New PIN (required)")
	_ = cmd.MarkFlagRequired("shirt")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func newBallotCmd() *cobra.Command {
	var shirt int

	cmd := &cobra.Command{
		Use:   "ballot",
		Short: "Show the ballot categories and candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/ballot"
			if shirt >= 0 {
				path += "?" + url.Values{"shirt_number": {strconv.Itoa(shirt)}}.Encode()
			}
			var result response.Ballot
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&shirt, "shirt", -1, "Leave this voter out of the candidates")
	return cmd
}

func newVoteCmd() *cobra.Command {
	var (
		req   request.VoteRequest
		picks []string
	)

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast your ballot",
		Example: `  awards vote --shirt 7 --pin 5678 --pick shield=Eda --pick spark=Yarina --pick catalyst=Eda
  awards vote --shirt 7 --pin 5678 --pick mental_support=Eda --pick bonus=Yarina --reason "Kept us calm"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := parsePicks(picks)
			if err != nil {
				return err
			}
			req.Selections = selections

			var result response.Vote
			if err := client.Post(cmd.Context(), "/api/v1/votes", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	credentialFlags(cmd, &req.Credentials)
	cmd.Flags().StringArrayVar(&picks, "pick", nil, "Selection as category=name (repeatable)")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Why you picked them")
	cmd.Flags().BoolVar(&req.Anonymous, "anonymous", false, "Hide your name on the reason message")
	return cmd
}

// parsePicks turns category=name flags into ballot selections
func parsePicks(picks []string) (map[string]string, error) {
	selections := make(map[string]string, len(picks))
	for _, p := range picks {
		category, name, ok := strings.Cut(p, "=")
		category = strings.TrimSpace(category)
		if !ok || category == "" {
			return nil, fmt.Errorf("invalid --pick %q, expected category=name", p)
		}
		selections[category] = strings.TrimSpace(name)
	}
	return selections, nil
}

func newFeedbackCmd() *cobra.Command {
	var req request.FeedbackRequest

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send a message to the coach",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message
			if err := client.Post(cmd.Context(), "/api/v1/feedback", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Message sent")
			return nil
		},
	}

	credentialFlags(cmd, &req.Credentials)
	cmd.Flags().StringVar(&req.Text, "text", "", "Message text (required)")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "Name to show instead of your roster name")
	cmd.Flags().BoolVar(&req.Anonymous, "anonymous", false, "Send without your name")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newInboxCmd() *cobra.Command {
	var creds request.Credentials

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Read the messages sent to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Messages
			if err := client.Post(cmd.Context(), "/api/v1/inbox", creds, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	credentialFlags(cmd, &creds)
	return cmd
}
