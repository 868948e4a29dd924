package main

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/noah-ing/consensys"
	"github.com/noah-ing/consensys/agent"
	"github.com/noah-ing/consensys/logging"
	"github.com/noah-ing/consensys/model"
	"github.com/noah-ing/consensys/model/anthropic"
	"github.com/noah-ing/consensys/model/openai"
	"github.com/noah-ing/consensys/store/sqlite"
)

var (
	verbose      bool
	dbPath       string
	provider     string
	modelName    string
	personasPath string
	version      = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "consensys",
	Short: "Multi-agent AI code review with debate and voting",
	Long: `Consensys runs code reviews with a panel of AI experts who review,
debate, and vote on code quality. Each expert has a unique perspective:

  - SecurityExpert: vulnerabilities and security issues
  - PerformanceEngineer: efficiency and optimization
  - ArchitectureCritic: design patterns and structure
  - PragmaticDev: practicality balanced with best practices

Quick Start:
  consensys review path/to/file.go       # Review a file
  consensys review --code 'func f() {}'  # Review inline code
  consensys history                      # List past sessions
  consensys replay <session-id>          # Replay a past debate`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; explicit environment still applies.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "consensys.db", "Path to the session database")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "anthropic", "Model provider (anthropic or openai)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model name override for the chosen provider")
	rootCmd.PersistentFlags().StringVar(&personasPath, "personas", "", "YAML file of reviewer personas (defaults to the built-in panel)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func newLogger() logging.Logger {
	cfg := logging.DefaultConfig()
	if verbose {
		cfg.Level = logging.LogLevelDebug
	}
	return logging.New(cfg)
}

func openStore() (*sqlite.Store, error) {
	st, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database %s: %w", dbPath, err)
	}
	return st, nil
}

func newModel() (model.Model, error) {
	switch provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if modelName != "" {
				o.Model = anthropicsdk.Model(modelName)
			}
		}), nil
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if modelName != "" {
				o.Model = modelName
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want anthropic or openai)", provider)
	}
}

func loadPanel() ([]agent.Persona, error) {
	if personasPath == "" {
		return agent.DefaultPersonas(), nil
	}
	personas, err := agent.LoadPersonas(personasPath)
	if err != nil {
		return nil, fmt.Errorf("load personas from %s: %w", personasPath, err)
	}
	return personas, nil
}

// newEngine assembles the review engine from the persistent flags. The caller
// owns the returned store and must close it.
func newEngine() (*consensys.Consensys, *sqlite.Store, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	m, err := newModel()
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	personas, err := loadPanel()
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	engine := consensys.New(agent.NewPanel(personas, m), func(o *consensys.Options) {
		o.Store = st
		o.Logger = newLogger()
	})
	return engine, st, nil
}
