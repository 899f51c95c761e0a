package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sqlbind/sqlbind"
	"github.com/sqlbind/sqlbind/connector"
	"github.com/sqlbind/sqlbind/engine"
)

// connFromEnv builds the connection config from SQLBIND_* environment
// variables, after optionally loading an env file.
func connFromEnv(envFile string) (connector.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return connector.Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		// Default .env is optional.
		_ = godotenv.Load()
	}

	port := 5432
	if p := os.Getenv("SQLBIND_PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return connector.Config{}, fmt.Errorf("bad SQLBIND_PORT %q", p)
		}
		port = n
	}
	return connector.Config{
		Host:     envDefault("SQLBIND_HOST", "localhost"),
		Port:     port,
		Database: os.Getenv("SQLBIND_DATABASE"),
		Username: os.Getenv("SQLBIND_USER"),
		Password: os.Getenv("SQLBIND_PASSWORD"),
		SSLMode:  envDefault("SQLBIND_SSLMODE", "disable"),
	}, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRunCmd() *cobra.Command {
	flags := &templateFlags{}
	var envFile string
	var maxRows int

	cmd := &cobra.Command{
		Use:   "run <template-file>",
		Short: "Compile a template and execute it against Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := readTemplate(args[0])
			if err != nil {
				return err
			}
			flags.dialect = "postgres"
			cfg, err := connFromEnv(envFile)
			if err != nil {
				return err
			}

			ctx := context.Background()
			eng, err := sqlbind.Connect(ctx, "postgres", cfg)
			if err != nil {
				return err
			}
			defer eng.Close()

			session, err := eng.Session(ctx)
			if err != nil {
				return err
			}
			defer session.Close(ctx)
			session.Reporter().SetHandler(engine.Logging())

			ext, _, err := flags.populate(session.Store())
			if err != nil {
				return err
			}

			if err := session.Prepare(ctx, "", tmpl, ext); err != nil {
				return err
			}
			defer session.Finish(ctx)

			if err := session.Execute(ctx); err != nil {
				return err
			}

			compiled := session.Compiled()
			if !compiled.IsQuery() {
				fmt.Println("ok")
				return session.Commit(ctx)
			}

			names := make([]string, len(compiled.Outputs))
			for i, out := range compiled.Outputs {
				names[i] = out.Name
			}
			fmt.Println(strings.Join(names, "\t"))

			for n := 0; maxRows <= 0 || n < maxRows; n++ {
				ok, err := session.Fetch(ctx)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				row := make([]string, len(compiled.Outputs))
				for i, out := range compiled.Outputs {
					row[i] = out.Cell.String()
				}
				fmt.Println(strings.Join(row, "\t"))
			}
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("dialect") // run always targets Postgres
	cmd.Flags().StringVar(&envFile, "env-file", "", "env file with SQLBIND_* connection settings")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "stop after N rows (0 = all)")
	return cmd
}
