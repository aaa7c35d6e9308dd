package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeweeks/lifeweeks/internal/calculation"
	"github.com/lifeweeks/lifeweeks/internal/config"
	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/lifeexpectancy"
	"github.com/lifeweeks/lifeweeks/internal/locale"
	"github.com/lifeweeks/lifeweeks/internal/output"
	"github.com/lifeweeks/lifeweeks/internal/platform/logger"
	"github.com/lifeweeks/lifeweeks/internal/settings"
)

// app carries the wiring shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	env    func(string) string

	configFile string
	dbFlag     string
	formatFlag string
	logFlag    string

	cfg       *config.Configuration
	log       logger.Logger
	table     *lifeexpectancy.Table
	store     *settings.Store
	repo      *settings.ProjectionRepository
	svc       *calculation.ProjectionService
	formatter output.Formatter
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, now: time.Now, env: os.Getenv}
	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command line and releases the settings database even when
// the command fails.
func (a *app) run(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lifeweeks",
		Short:         "Project your life expectancy and count the weeks that remain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.dbFlag, "db", "", "Settings database path (overrides config)")
	root.PersistentFlags().StringVarP(&a.formatFlag, "format", "f", "", "Output format: "+fmt.Sprint(output.AvailableFormatterNames()))
	root.PersistentFlags().StringVar(&a.logFlag, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.projectCmd(),
		a.refreshCmd(),
		a.timelineCmd(),
		a.statsCmd(),
		a.countriesCmd(),
		a.showCmd(),
		a.resetCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.NewInputParser().Load(a.configFile)
	if err != nil {
		return err
	}
	if a.dbFlag != "" {
		cfg.DatabasePath = a.dbFlag
	}
	if a.formatFlag != "" {
		cfg.OutputFormat = a.formatFlag
	}
	if a.logFlag != "" {
		cfg.LogLevel = a.logFlag
	}
	if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.formatter = output.GetFormatterByName(cfg.OutputFormat)
	a.log = logger.New(a.stderr, cfg.LogLevel)

	src := lifeexpectancy.EmbeddedSource()
	if cfg.DatasetPath != "" {
		src = lifeexpectancy.FileSource(cfg.DatasetPath)
	}
	a.table = lifeexpectancy.NewTable(src, lifeexpectancy.WithLogger(a.log), lifeexpectancy.WithClock(a.now))

	var resolver calculation.CountryResolver = a.localeResolver()
	if cfg.DefaultCountry != "" {
		resolver = locale.StaticResolver(cfg.DefaultCountry)
	}
	a.svc = calculation.NewProjectionService(a.table, resolver,
		calculation.WithNow(a.now),
		calculation.WithServiceLogger(a.log))

	kv, err := settings.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	a.store = settings.New(kv)
	a.repo = settings.NewProjectionRepository(a.store, time.Local)
	a.log.Debugf("using settings database %s", cfg.DatabasePath)
	return nil
}

// localeResolver detects the country from the environment and turns an
// undetectable locale into a validation error naming the flag to use.
func (a *app) localeResolver() locale.Resolver {
	env := locale.EnvResolver{Getenv: a.env}
	return locale.ResolverFunc(func(ctx context.Context) (string, error) {
		code, err := env.DetectCountryCode(ctx)
		if errors.Is(err, locale.ErrUndetectable) {
			return "", domain.NewValidationError("cannot detect a country from the locale, pass --country or set default_country")
		}
		return code, err
	})
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) render(report *output.Report) error {
	report.GeneratedAt = a.svc.Now()
	data, err := a.formatter.Format(report)
	if err != nil {
		return fmt.Errorf("format %s output: %w", a.formatter.Name(), err)
	}
	if _, err := a.stdout.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = fmt.Fprintln(a.stdout)
	}
	return err
}
