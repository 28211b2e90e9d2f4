package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"termdate/cmd/termdate/ui"
	"termdate/internal/config"
	"termdate/internal/logging"
	"termdate/internal/session"
	"termdate/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "termdate",
	Short: "termdate - terminal dating with collaborative coding challenges",
	Long: `termdate is a terminal dating app: browse profiles, chat with matches,
and break the ice with a collaborative coding challenge. Each participant
writes half of a program; both halves run together in a sandboxed
interpreter.

Run 'termdate --user <name>' to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Storage.DatabasePath = dbPath
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or migrate the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()
		fmt.Printf("initialized %s\n", cfg.Storage.DatabasePath)
		return nil
	},
}

var addUserCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Create a user account",
	RunE:  runAddUser,
}

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		users, err := st.ListUsers(100)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("(no users)")
			return nil
		}
		for _, u := range users {
			fmt.Printf("%3d | %-20s | %-28s | %s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var seedChallengesCmd = &cobra.Command{
	Use:   "seed-challenges",
	Short: "Load the built-in coding challenge prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		added, err := st.SeedChallenges()
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d challenges\n", added)
		return nil
	},
}

var (
	newUsername string
	newEmail    string
	newPassword string
	newBio      string
	newLink     string
	newFont     string
	newAge      int
	newLocation string
)

func runAddUser(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.CreateUser(store.NewUserParams{
		Username:    newUsername,
		Email:       newEmail,
		Password:    newPassword,
		Bio:         newBio,
		ProfileLink: newLink,
		NameFont:    newFont,
		Age:         newAge,
		Location:    newLocation,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (id %d)\n", newUsername, id)
	return nil
}

var (
	loginUser     string
	loginPassword string
)

func runInteractive(cmd *cobra.Command, args []string) error {
	if loginUser == "" {
		return fmt.Errorf("--user is required for the interactive interface")
	}

	st, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	// Challenges must exist before the first /challenge command.
	if _, err := st.SeedChallenges(); err != nil {
		return err
	}

	user, err := st.Authenticate(loginUser, loginPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	sess, err := session.New(st, user.ID)
	if err != nil {
		return err
	}

	logger.Info("session started", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	app := ui.NewApp(cfg, st, sess, logger)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "termdate.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVar(&loginUser, "user", "", "username to log in as")
	rootCmd.Flags().StringVar(&loginPassword, "password", "", "password")

	addUserCmd.Flags().StringVar(&newUsername, "username", "", "unique username")
	addUserCmd.Flags().StringVar(&newEmail, "email", "", "unique email")
	addUserCmd.Flags().StringVar(&newPassword, "password", "", "password")
	addUserCmd.Flags().StringVar(&newBio, "bio", "", "bio text")
	addUserCmd.Flags().StringVar(&newLink, "link", "", "profile link")
	addUserCmd.Flags().StringVar(&newFont, "font", "standard", "display name font")
	addUserCmd.Flags().IntVar(&newAge, "age", 0, "age")
	addUserCmd.Flags().StringVar(&newLocation, "location", "", "location")
	_ = addUserCmd.MarkFlagRequired("username")
	_ = addUserCmd.MarkFlagRequired("email")
	_ = addUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(initCmd, addUserCmd, listUsersCmd, seedChallengesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
