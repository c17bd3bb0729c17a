package cli

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/auth"
	"github.com/spf13/cobra"
)

type statusReport struct {
	APIURL       string     `json:"api_url"`
	Online       bool       `json:"online"`
	Error        string     `json:"error,omitempty"`
	Store        string     `json:"store"`
	Persistent   bool       `json:"persistent"`
	SignedIn     bool       `json:"signed_in"`
	Email        string     `json:"email,omitempty"`
	TokenExpires *time.Time `json:"token_expires,omitempty"`
	TokenExpired bool       `json:"token_expired,omitempty"`
	Pending      int        `json:"pending_uploads"`
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend reachability and local state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := a.session

			rep := statusReport{
				APIURL:     s.Client.BaseURL(),
				Store:      a.cfg.StoreType,
				Persistent: s.Store.Available(),
				Pending:    len(s.Uploads.All(ctx)),
			}

			if err := s.Client.Ping(ctx); err != nil {
				rep.Error = err.Error()
			} else {
				rep.Online = true
			}

			claims, err := s.Tokens.Claims()
			switch {
			case errors.Is(err, auth.ErrNoToken):
			case err != nil:
				rep.SignedIn = true
			default:
				rep.SignedIn = true
				rep.Email = claims.Email
				if claims.ExpiresAt != nil {
					exp := claims.ExpiresAt.Time.UTC()
					rep.TokenExpires = &exp
				}
				rep.TokenExpired = s.Tokens.Expired(time.Now())
			}

			return a.printJSON(rep)
		},
	}
}
