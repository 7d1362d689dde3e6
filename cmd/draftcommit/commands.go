package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/draftcommit/draftcommit/pkg/ai"
	"github.com/draftcommit/draftcommit/pkg/config"
	"github.com/draftcommit/draftcommit/pkg/diff"
	"github.com/draftcommit/draftcommit/pkg/gitrepo"
	"github.com/draftcommit/draftcommit/pkg/history"
	"github.com/draftcommit/draftcommit/pkg/message"
	"github.com/draftcommit/draftcommit/pkg/template"
	"github.com/draftcommit/draftcommit/pkg/tokenizer"
)

const version = "0.1.0"

var (
	dryRun bool
	yes    bool
	force  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a commit message from the staged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		logger := newLogger()
		defer func() { _ = logger.Sync() }()

		repo, err := gitrepo.Open(".")
		if err != nil {
			return err
		}
		files, err := repo.StagedChanges()
		if err != nil {
			return fmt.Errorf("reading staged changes: %w", err)
		}
		summary := diff.NewSummary(files)
		if summary.IsEmpty() {
			return fmt.Errorf("no staged changes; stage files with git add first")
		}

		msg, err := generateMessage(cfg, summary, logger)
		if err != nil {
			return err
		}
		text := msg.Format()

		fmt.Println()
		fmt.Println(indent(text, "  "))
		fmt.Println()

		if cfg.History.Enabled {
			sink := history.NewFileSink(cfg.HistoryPath(), cfg.History.Limit)
			sink.Append(text)
		}

		if dryRun {
			fmt.Println("Dry run: no commit was created.")
			return nil
		}
		if !yes && !confirm("Use this commit message?") {
			return fmt.Errorf("commit message rejected")
		}
		if err := repo.Commit(text); err != nil {
			return err
		}
		fmt.Println("Commit created.")
		return nil
	},
}

// generateMessage runs the configured generation path. The AI path cannot
// fail; the template path reports an empty changeset, which the caller has
// already ruled out.
func generateMessage(cfg *config.Config, summary diff.Summary, logger *zap.Logger) (message.Message, error) {
	convention := message.ConventionFor(cfg.Commit.Convention)
	templateGen := template.NewGenerator(template.Options{
		TitleTemplate:  cfg.Commit.TitleTemplate,
		BodyTemplate:   cfg.Commit.BodyTemplate,
		Convention:     convention,
		MaxTitleLength: cfg.Commit.MaxTitleLength,
	})

	if cfg.Generator.Mode != config.ModeAI {
		msg, err := templateGen.Generate(summary)
		if err != nil {
			return message.Message{}, err
		}
		if cfg.OneLine() {
			msg = msg.TitleOnly()
		}
		return msg, nil
	}

	provider := buildProvider(cfg)
	maxDiffTokens := cfg.Context.MaxDiffTokens
	if limit := tokenizer.ProviderTokenLimit(string(cfg.AI.Provider), cfg.AI.Model); limit < maxDiffTokens {
		maxDiffTokens = limit
	}
	prompts := ai.NewPromptBuilder(ai.PromptOptions{
		MaxFiles:           cfg.Context.MaxFiles,
		MaxDiffTokens:      maxDiffTokens,
		MaxTotalChars:      cfg.Context.MaxTotalChars,
		OneLine:            cfg.OneLine(),
		Convention:         convention,
		Language:           cfg.Commit.Language,
		CustomInstructions: cfg.AI.SystemPrompt,
		TokenCounter:       tokenizer.CounterForModel(cfg.AI.Model),
	})
	generator := ai.NewGenerator(ai.Options{
		Provider:       provider,
		Prompts:        prompts,
		Convention:     convention,
		Fallback:       templateGen,
		OneLine:        cfg.OneLine(),
		MaxTitleLength: cfg.Commit.MaxTitleLength,
		Logger:         logger,
	})

	ctx := context.Background()
	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result := generator.Generate(ctx, summary)
	if result.Outcome != ai.OutcomeSuccess {
		logger.Info("AI generation degraded",
			zap.String("outcome", result.Outcome.String()),
			zap.String("reason", result.Reason))
	}
	return result.Message, nil
}

func buildProvider(cfg *config.Config) ai.Provider {
	switch cfg.AI.Provider {
	case config.Ollama:
		return ai.NewOllamaProvider(cfg.AI.Model, cfg.AI.BaseURL, cfg.Timeout())
	default:
		return ai.NewOpenAIProvider(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.Timeout())
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFromPath(configPath)
	}
	return config.LoadConfig()
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func confirm(prompt string) bool {
	fmt.Printf("%s [Y/n] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "" || answer == "y" || answer == "yes"
}

func indent(text, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := configPath
		if targetPath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			targetPath = filepath.Join(homeDir, ".draftcommitrc")
		}
		if _, err := os.Stat(targetPath); err == nil && !force {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", targetPath)
		}
		if err := config.SaveExampleConfig(targetPath); err != nil {
			return fmt.Errorf("writing configuration file: %w", err)
		}
		fmt.Printf("Configuration written to %s\n", targetPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("draftcommit v%s\n", version)
	},
}

func init() {
	generateCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print the message without creating a commit")
	generateCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
}
