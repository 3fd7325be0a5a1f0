package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/core/service"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect or discard the local session",
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show whether a session token is stored",
				Action: sessionStatus,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored session token",
				Action: sessionClear,
			},
		},
	}
}

// sessionView is the status report. Claims are decoded for display only;
// admission depends on token presence alone.
type sessionView struct {
	Authenticated bool   `json:"authenticated"`
	Server        string `json:"server"`
	SessionFile   string `json:"session_file"`
	Email         string `json:"email,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Expired       bool   `json:"expired,omitempty"`
}

func sessionStatus(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	view := sessionView{
		Authenticated: rt.Sessions.IsAuthenticated(),
		Server:        rt.Conn.Server(),
		SessionFile:   rt.Config.SessionPath(),
	}

	if token, ok := rt.Sessions.Token(); ok {
		claims, err := service.DecodeClaims(token)
		if err != nil {
			rt.Logger.Debug("session token claims not readable", "error", err)
		} else {
			fillClaims(&view, claims, time.Now())
		}
	}

	return rt.print(view)
}

func fillClaims(view *sessionView, claims *domain.TokenClaims, now time.Time) {
	view.Email = claims.Email
	view.UserID = claims.UserID
	if claims.ExpiresAt != nil {
		view.ExpiresAt = claims.ExpiresAt.Local().Format(time.RFC3339)
		view.Expired = claims.Expired(now)
	}
}

func sessionClear(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	rt.Auth.Logout()
	rt.navigate(domain.NavGoLogin)
	rt.printf("Session cleared\n")
	return nil
}
