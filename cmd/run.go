package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spigell/hh-collector/internal/headhunter"
	"github.com/spigell/hh-collector/internal/ingest"
	"github.com/spigell/hh-collector/internal/logger"
	"github.com/spigell/hh-collector/internal/secrets"
	"github.com/spigell/hh-collector/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptEmployerCounts = "Show companies and their vacancy counts"
	PromptAllVacancies   = "Show all vacancies"
	PromptAverageSalary  = "Show the average salary"
	PromptAboveAverage   = "Show vacancies with above-average salary"
	PromptKeyword        = "Show vacancies matching a keyword"
	PromptExit           = "Exit"

	defaultRandomCount = 30
)

var errExit = errors.New("exit requested")

var menuPrompt = promptui.Select{
	Label: "Choose a query",
	Items: []string{
		PromptEmployerCounts,
		PromptAllVacancies,
		PromptAverageSalary,
		PromptAboveAverage,
		PromptKeyword,
		PromptExit,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hh-collector main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("skip-selection", "y", false, "skip discovery and the interactive employer selection step")
	runCmd.Flags().Bool("reset", false, "truncate stored companies and vacancies before ingesting")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-collector", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Database == nil {
		logger.Fatal("database configuration is required")
	}

	if err := resolvePassword(config.Database); err != nil {
		logger.Fatal("loading database password",
			zap.Error(err),
			zap.String("hint", "set HH_COLLECTOR_PASSWORD_FILE environment variable or the 'database.password-file' key in the configuration file"),
		)
	}

	st, err := store.Open(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	if cmd.Flag("reset").Value.String() == "true" {
		if err := st.ClearEmployers(ctx); err != nil {
			logger.Fatal("resetting stored companies", zap.Error(err))
		}
		logger.Info("stored companies and vacancies cleared")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal("loading headhunter token", zap.Error(err))
	}

	hh := headhunter.New(ctx, logger, token)

	if config.UserAgent != "" {
		hh.UserAgent = config.UserAgent
	}

	ing := ingest.New(hh, st, logger)

	if cmd.Flag("skip-selection").Value.String() == "false" {
		count := defaultRandomCount
		if config.Fetch != nil && config.Fetch.RandomCount > 0 {
			count = config.Fetch.RandomCount
		}

		vacancies := hh.FetchRandom(count)
		logger.Info("fetched random vacancies", zap.Int("count", vacancies.Len()))

		candidates, err := ing.DiscoverNewEmployers(ctx, vacancies)
		if err != nil {
			logger.Fatal("discovering employers", zap.Error(err))
		}

		if err := ing.SelectInteractive(ctx, candidates); err != nil {
			logger.Fatal("selecting employers", zap.Error(err))
		}
	}

	if err := ing.IngestAllKnownEmployers(ctx); err != nil {
		logger.Fatal("ingesting vacancies", zap.Error(err))
	}

	menu(ctx, st, logger)
}

// menu runs the interactive query loop until the operator exits.
func menu(ctx context.Context, st *store.Store, logger *zap.Logger) {
	for {
		_, choice, err := menuPrompt.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}

		if err := handleChoice(ctx, choice, st); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "requested by operator"))
				return
			}
			logger.Warn("query failed", zap.Error(err))
		}
	}
}

func handleChoice(ctx context.Context, choice string, st *store.Store) error {
	switch choice {
	case PromptEmployerCounts:
		counts, err := st.CountVacanciesPerEmployer(ctx)
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No company data.")
			return nil
		}
		for _, count := range counts {
			fmt.Printf("Company: %s, vacancies: %d\n", count.Name, count.Count)
		}
	case PromptAllVacancies:
		listings, err := st.ListAllVacancies(ctx)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			fmt.Println("No vacancies stored.")
			return nil
		}
		for _, listing := range listings {
			fmt.Printf("Vacancy: %s, company: %s, salary from: %s, to: %s\n",
				listing.Name, listing.Employer, formatSalary(listing.SalaryFrom), formatSalary(listing.SalaryTo))
		}
	case PromptAverageSalary:
		avg, err := st.AverageSalary(ctx)
		if err != nil {
			return err
		}
		if avg == nil {
			fmt.Println("No salary data.")
			return nil
		}
		fmt.Printf("Average salary: %.2f\n", *avg)
	case PromptAboveAverage:
		listings, err := st.VacanciesAboveAverage(ctx)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			fmt.Println("No vacancies with above-average salary.")
			return nil
		}
		for _, listing := range listings {
			fmt.Printf("Vacancy: %s, salary from: %s, to: %s\n",
				listing.Name, formatSalary(listing.SalaryFrom), formatSalary(listing.SalaryTo))
		}
	case PromptKeyword:
		keywordPrompt := promptui.Prompt{Label: "Keyword"}
		keyword, err := keywordPrompt.Run()
		if err != nil {
			return err
		}

		names, err := st.VacanciesMatchingKeyword(ctx, keyword)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Printf("No vacancies matching %q found.\n", keyword)
			return nil
		}
		for _, name := range names {
			fmt.Printf("Vacancy: %s\n", name)
		}
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", choice)
	}

	return nil
}

func formatSalary(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// resolvePassword fills Config.Password from the password file when one is
// configured. An inline password, or none at all, is left alone: local
// trust-authenticated setups need neither.
func resolvePassword(cfg *store.Config) error {
	file := strings.TrimSpace(cfg.PasswordFile)
	if file == "" {
		file = strings.TrimSpace(viper.GetString("database.password-file"))
	}
	if file == "" {
		return nil
	}

	password, err := secrets.Load(secrets.Source{
		Name: "database password",
		File: file,
	})
	if err != nil {
		return err
	}

	cfg.Password = password
	return nil
}

// resolveToken loads the optional API token. The public vacancies endpoint
// works anonymously, so a missing token-file key is not an error.
func resolveToken(config *Config) (string, error) {
	if config == nil || strings.TrimSpace(config.TokenFile) == "" {
		return "", nil
	}

	return secrets.Load(secrets.Source{
		Name: "headhunter token",
		File: config.TokenFile,
	})
}
