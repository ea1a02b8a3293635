// Package cli implements the maumctl commands for inspecting stored
// journals without going through the HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maumlog/maum/backend/internal/store/userdata"
)

var (
	dbPath   string
	username string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "maumctl",
	Short: "Inspect maum emotion journals",
	Long:  "Operator tooling for the maum journal database: list stored sessions and run the emotion reports offline.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MAUM_DB_PATH or data/maum.db)")
	RootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "Username whose journal to inspect (required)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("MAUM_DB_PATH"); env != "" {
		return env
	}
	return "data/maum.db"
}

func requireUser() string {
	if username == "" {
		fmt.Fprintln(os.Stderr, "error: --user is required")
		os.Exit(1)
	}
	return username
}

func openStore() (*userdata.SQLiteStore, error) {
	return userdata.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
