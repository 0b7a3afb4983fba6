package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillgap/internal/ai"
	"github.com/spigell/skillgap/internal/analyzer"
	"github.com/spigell/skillgap/internal/extraction"
	"github.com/spigell/skillgap/internal/logger"
	"github.com/spigell/skillgap/internal/secrets"
	"github.com/spigell/skillgap/internal/stats"
	"github.com/spigell/skillgap/internal/taxonomy"
)

const (
	PromptGapReport    = "Gap report"
	PromptSimilarity   = "Similarity matrix"
	PromptSummary      = "Skill summary"
	PromptFrequency    = "Skill frequency"
	PromptContexts     = "Skill contexts"
	PromptResultToFile = "Dump result to file"
	PromptExit         = "Exit"
	PromptBack         = "back"

	topFrequencies = 10
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptGapReport, PromptSimilarity, PromptSummary, PromptFrequency, PromptContexts, PromptResultToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare the skills of a resume with a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume as plain UTF-8 text")
	analyzeCmd.Flags().String("jd", "", "path to the job description as plain UTF-8 text")
	analyzeCmd.Flags().BoolP("yes", "y", false, "print the gap report and exit without asking")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("jd")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the skillgap", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumeText, err := readInput(cmd, "resume")
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}
	jdText, err := readInput(cmd, "jd")
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	tax, err := loadTaxonomy(config.TaxonomyFile)
	if err != nil {
		logger.Fatal("loading the taxonomy", zap.Error(err), zap.String("file", config.TaxonomyFile))
	}

	backend, err := newBackend(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"initializing the ai backend",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	opts, err := engineOptions(config.Extraction)
	if err != nil {
		logger.Fatal("reading extraction options", zap.Error(err))
	}

	engine, err := analyzer.New(analyzer.Deps{
		Taxonomy:  tax,
		Annotator: backend.Annotator,
		Embedder:  backend.Embedder,
		Logger:    logger,
	}, opts)
	if err != nil {
		logger.Fatal("creating the analyzer", zap.Error(err))
	}

	for _, status := range engine.Strategies() {
		logger.Debug("extraction strategy",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	result, err := engine.Analyze(ctx, resumeText, jdText)
	if err != nil {
		if errors.Is(err, analyzer.ErrDependencyUnavailable) {
			logger.Fatal("analysis failed", zap.Error(err), zap.String("provider", backend.Provider), zap.String("model", backend.Model))
		}
		logger.Fatal("analysis failed", zap.Error(err))
	}

	logger.Info("skills extracted",
		zap.Int("resume", len(result.Resume.Skills)),
		zap.Int("jd", len(result.JD.Skills)),
		zap.Float64("match score", result.MatchScore),
		zap.Float64("coverage", result.Coverage),
	)

	if cmd.Flag("yes").Value.String() == "true" {
		if err := handleAction(PromptGapReport, engine, result, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, engine, result, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, engine *analyzer.Engine, result *analyzer.Result, logger *zap.Logger) error {
	switch action {
	case PromptGapReport:
		pretty, _ := json.MarshalIndent(result.ReportByStatus(), "", "  ")
		logger.Info(string(pretty),
			zap.Float64("match score", result.MatchScore),
			zap.Float64("coverage", result.Coverage),
		)
		return nil
	case PromptSimilarity:
		if result.Similarity.Empty() {
			logger.Info("similarity matrix is empty", zap.String("reason", "one of the documents has no skills"))
			return nil
		}
		pretty, _ := json.MarshalIndent(result.Similarity.BestMatches(), "", "  ")
		logger.Info(string(pretty), zap.Int("rows", len(result.Similarity.Rows)), zap.Int("cols", len(result.Similarity.Cols)))
		return nil
	case PromptSummary:
		pretty, _ := json.MarshalIndent(map[string]any{
			"resume":              result.ResumeSummary,
			"jd":                  result.JDSummary,
			"resume distribution": engine.Distribution(result.Resume),
			"jd distribution":     engine.Distribution(result.JD),
		}, "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptFrequency:
		pretty, _ := json.MarshalIndent(map[string][]stats.Count{
			"resume": stats.Top(engine.Frequency(result.Resume), topFrequencies),
			"jd":     stats.Top(engine.Frequency(result.JD), topFrequencies),
		}, "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptContexts:
		return showContexts(engine, result, logger)
	case PromptResultToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showContexts(engine *analyzer.Engine, result *analyzer.Result, logger *zap.Logger) error {
	for {
		items := make([]string, 0, len(result.Resume.Skills))
		for _, s := range result.Resume.Skills {
			items = append(items, s.Name)
		}

		skillPrompt := promptui.Select{
			Label: "Choose a resume skill and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := skillPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		contexts := engine.Contexts(result.Resume, selected)
		pretty, _ := json.MarshalIndent(contexts, "", "  ")
		logger.Info(string(pretty), zap.String("skill", selected), zap.Int("count", len(contexts)))
	}
}

func readInput(cmd *cobra.Command, flag string) (string, error) {
	path := strings.TrimSpace(cmd.Flag(flag).Value.String())
	if path == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path = strings.TrimSpace(path); path == "" {
		return taxonomy.Default()
	}
	return taxonomy.Load(path)
}

func newBackend(ctx context.Context, cfg *ai.Config, log *zap.Logger) (*ai.Backend, error) {
	if cfg.Gemini == nil {
		cfg.Gemini = &ai.GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}
	cfg.Gemini.APIKey = apiKey

	return ai.New(ctx, cfg, log)
}

func engineOptions(cfg *ExtractionConfig) (analyzer.Options, error) {
	variant, err := extraction.ParseVariant(cfg.PatternVariant)
	if err != nil {
		return analyzer.Options{}, err
	}

	return analyzer.Options{
		Parallel:       cfg.Parallel,
		PatternVariant: variant,
		EntityLabels:   cfg.EntityLabels,
		Disabled:       cfg.Disabled,
		ClassifiedOnly: cfg.ClassifiedOnly,
	}, nil
}
