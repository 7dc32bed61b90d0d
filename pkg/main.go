package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkg "git.solsynth.dev/hypernet/yatube/pkg/internal"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/cache"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/config"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "yatube",
		Short: "The blogging platform for writers and their readers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the web and gRPC servers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return connectDatabase()
			},
		},
		newCreateSuperuserCommand(),
	)

	return root
}

func newCreateSuperuserCommand() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account with access to the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connectDatabase(); err != nil {
				return err
			}
			user, err := services.CreateSuperuser(username, email, password)
			if err != nil {
				return err
			}
			log.Info().Uint("id", user.ID).Str("username", user.Username).Msg("Superuser created.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "login name of the superuser")
	cmd.Flags().StringVar(&email, "email", "", "email address of the superuser")
	cmd.Flags().StringVar(&password, "password", "", "password of the superuser")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loadSettings() error {
	if err := config.LoadSettings(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Error().Err(err).Msg("An error occurred when loading settings.")
			return err
		}
		log.Warn().Msg("No settings file was found, running with defaults and environment.")
	}

	if viper.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return nil
}

func connectDatabase() error {
	if err := database.NewGorm(); err != nil {
		log.Error().Err(err).Msg("An error occurred when connect to database.")
		return err
	} else if err := database.RunMigration(database.C); err != nil {
		log.Error().Err(err).Msg("An error occurred when running database auto migration.")
		return err
	}
	return nil
}

func serve() error {
	// Booting screen
	fmt.Println(color.YellowString(" __   __    _         _\n \\ \\ / /_ _| |_ _   _| |__   ___\n  \\ V / _` | __| | | | '_ \\ / _ \\\n   | | (_| | |_| |_| | |_) |  __/\n   |_|\\__,_|\\__|\\__,_|_.__/ \\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Yatube"), pkg.AppVersion)
	fmt.Printf("The blogging platform for writers and their readers\n")
	color.HiBlack("=====================================================\n")

	// Connect to database
	if err := connectDatabase(); err != nil {
		return err
	}

	// Cache store
	if err := cache.NewStore(); err != nil {
		log.Error().Err(err).Msg("An error occurred when initializing cache.")
		return err
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("cleanup.schedule"), services.DoAutoMediaCleanup); err != nil {
		log.Error().Err(err).Msg("An error occurred when scheduling media cleanup.")
		return err
	}
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	health := grpc.NewGrpc()
	go func() {
		if err := health.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()
	health.MarkServing()

	log.Info().Str("bind", viper.GetString("bind")).Str("grpc", viper.GetString("grpc_bind")).Msg("Yatube is up and running.")

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	health.Stop(5 * time.Second)
	if err := server.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("An error occurred when shutting down server...")
	}
	<-quartz.Stop().Done()

	return nil
}
