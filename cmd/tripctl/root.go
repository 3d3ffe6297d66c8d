package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/identity"
	"github.com/pkordes/trip-planner/internal/logging"
)

// app carries the state shared by every subcommand for one invocation.
type app struct {
	v     *viper.Viper
	slot  *identity.SQLiteSlot
	ids   *identity.Store
	trips *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan a trip together from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().String("server", "http://localhost:8080", "trip planner API base URL (env TRIPCTL_SERVER)")
	root.PersistentFlags().String("identity-file", defaultIdentityPath(), "where the local identity is stored (env TRIPCTL_IDENTITY_FILE)")
	root.PersistentFlags().String("log-level", "warn", "log level for diagnostics on stderr")
	_ = a.v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = a.v.BindPFlag("identity_file", root.PersistentFlags().Lookup("identity-file"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	a.v.SetEnvPrefix("TRIPCTL")
	a.v.AutomaticEnv()

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.createCmd(),
		a.showCmd(),
		a.exportCmd(),
		a.hotelCmd(),
		a.voteCmd(),
		a.rateCmd(),
		a.activityCmd(),
		a.packCmd(),
		a.commentCmd(),
	)
	return root
}

func defaultIdentityPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tripctl", "identity.db")
}

// open loads the identity slot and builds an API client that carries the
// stored identity, if any.
func (a *app) open(cmd *cobra.Command) error {
	log := logging.New(cmd.ErrOrStderr(), a.v.GetString("log_level"), "text")

	slot, err := identity.OpenSQLiteSlot(a.v.GetString("identity_file"))
	if err != nil {
		return err
	}
	a.slot = slot
	a.ids = identity.NewStore(slot, time.Now, log)

	a.trips = client.New(a.v.GetString("server"), nil)
	current, err := a.ids.Resolve(cmd.Context())
	if err != nil {
		return err
	}
	if current != nil {
		a.trips = a.trips.WithActor(current.Actor())
	}
	return nil
}

func (a *app) close() error {
	if a.slot == nil {
		return nil
	}
	err := a.slot.Close()
	a.slot = nil
	if err != nil {
		return fmt.Errorf("close identity store: %w", err)
	}
	return nil
}
