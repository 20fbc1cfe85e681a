package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/harx-ai/reps-assessor/internal/auth"
	"github.com/harx-ai/reps-assessor/internal/capture"
	"github.com/harx-ai/reps-assessor/internal/evaluate"
	"github.com/harx-ai/reps-assessor/internal/localstore"
	"github.com/harx-ai/reps-assessor/internal/logger"
	"github.com/harx-ai/reps-assessor/internal/oracle"
	"github.com/harx-ai/reps-assessor/internal/oracle/gemini"
	"github.com/harx-ai/reps-assessor/internal/oracle/openai"
	"github.com/harx-ai/reps-assessor/internal/passages"
	"github.com/harx-ai/reps-assessor/internal/profile"
	"github.com/harx-ai/reps-assessor/internal/repstore"
	"github.com/harx-ai/reps-assessor/internal/scenario"
	"github.com/harx-ai/reps-assessor/internal/secrets"
	"github.com/harx-ai/reps-assessor/internal/session"
	"github.com/harx-ai/reps-assessor/internal/synthesis"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptTypeResponse = "Type a response"
	PromptRecordAudio  = "Record an audio response"
	PromptContinue     = "Continue to the next item"
	PromptRedo         = "Redo this item"
	PromptBack         = "Go back to the previous item"
	PromptSummary      = "Jump to the phase summary"
	PromptRetry        = "Retry"
	PromptQuit         = "Quit"

	defaultRecorderBinary = "arecord"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full assessment session against the stored profile",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("user-id", "", "REPS user id")
	runCmd.Flags().String("agent-id", "", "REPS agent id")
	runCmd.Flags().String("token", "", "REPS access token")
	runCmd.Flags().String("return-url", "", "url to print when the session finishes")
	runCmd.Flags().Bool("standalone", false, "run without an upstream handoff, identity from REPS_STANDALONE_* env")
	runCmd.Flags().BoolP("text-only", "t", false, "never record audio, type every response")
}

// run drives one assessment session end to end.
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

	logger.Info("starting the reps-assessor", zap.String("version", version))

	local, err := localstore.Open(dataDir(config))
	if err != nil {
		logger.Fatal("opening the local store", zap.Error(err))
	}
	defer local.Close()

	authCtx, err := resolveAuth(cmd, config, local, logger)
	if err != nil {
		logger.Fatal("resolving auth context", zap.Error(err),
			zap.String("hint", "pass --token/--user-id, set REPS_TOKEN_FILE, or use --standalone"),
		)
	}

	store := repstore.New(ctx, logger, authCtx.Token, config.APIURL)
	if config.UserAgent != "" {
		store.UserAgent = config.UserAgent
	}

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ai client", zap.Error(err))
	}

	p, err := store.GetProfile()
	if err != nil {
		logger.Fatal("fetching the profile", zap.Error(err),
			zap.String("hint", "run 'reps-assessor import' to create a profile from your CV first"),
		)
	}

	// The session gate: an invalid profile never opens a session.
	if err := p.Validate(); err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			first := verr.First()
			logger.Fatal("profile is not ready for assessment",
				zap.String("field", first.Field),
				zap.String("problem", first.Message),
				zap.String("hint", "run 'reps-assessor edit' to fix the profile"),
			)
		}
		logger.Fatal("validating the profile", zap.Error(err))
	}

	skills := config.Skills
	if len(skills) == 0 {
		skills = defaultSkills()
	}
	refs := make([]session.SkillRef, 0, len(skills))
	for _, s := range skills {
		refs = append(refs, session.SkillRef{Name: s.Name, Category: s.Category})
	}

	tracker, err := session.NewTracker(p.LanguageNames(), refs, logger)
	if err != nil {
		logger.Fatal("laying out the session", zap.Error(err))
	}

	agg := session.NewAggregator(local, store, p.ID, logger)
	logger.Info("session laid out",
		zap.Int("languages", len(p.LanguageNames())),
		zap.Int("skills", len(refs)),
		zap.String("session_id", agg.SessionID()),
	)

	maxLogLen := 0
	if config.AI != nil && config.AI.Gemini != nil {
		maxLogLen = config.AI.Gemini.MaxLogLength
	}

	deps := &sessionDeps{
		tracker:   tracker,
		agg:       agg,
		store:     store,
		passages:  passages.NewManager(completer, logger),
		scenarios: scenario.NewGenerator(completer, logger, maxLogLen),
		skillEval: evaluate.NewSkillEvaluator(store, []evaluate.Strategy{
			evaluate.NewStoreStrategy(store),
			evaluate.NewOracleStrategy(completer),
		}, logger),
		langEval: evaluate.NewLanguageEvaluator(store, completer, logger),
		recorder: newRecorder(cmd, config, logger),
		logger:   logger,
	}

	for tracker.Current() != nil {
		if err := runItem(ctx, deps); err != nil {
			if errors.Is(err, errExit) {
				agg.Wait()
				logger.Info("exiting", zap.String("reason", "session left early"),
					zap.Float64("completion", tracker.Completion()))
				return
			}
			logger.Fatal("session failed", zap.Error(err))
		}
	}

	// Every remote write settles before synthesis reads the results map.
	agg.Wait()

	aggregated, err := synthesize(ctx, completer, agg, p, logger)
	if err != nil {
		if errors.Is(err, errExit) {
			return
		}
		logger.Fatal("synthesizing the final profile", zap.Error(err))
	}

	if err := tracker.FinishSynthesis(); err != nil {
		logger.Fatal("finishing the session", zap.Error(err))
	}

	renderAggregated(aggregated)
	if authCtx.ReturnURL != "" {
		fmt.Printf("\nContinue at: %s\n", authCtx.ReturnURL)
	}
	logger.Info("session done", zap.Float64("overall_score", aggregated.OverallScore))
}

type sessionDeps struct {
	tracker   *session.Tracker
	agg       *session.Aggregator
	store     *repstore.Client
	passages  *passages.Manager
	scenarios *scenario.Generator
	skillEval *evaluate.SkillEvaluator
	langEval  *evaluate.LanguageEvaluator
	recorder  capture.Recorder
	logger    *zap.Logger
}

// runItem walks one item through capture, evaluation and recording, then
// asks where to go next.
func runItem(ctx context.Context, deps *sessionDeps) error {
	item := deps.tracker.Current()
	fmt.Printf("\n=== [%s] %s (%.0f%% done) ===\n", item.Kind, item.Name, deps.tracker.Completion())

	result, err := assess(ctx, deps, item)
	if err != nil {
		return err
	}
	if result == nil {
		// The candidate retreated or asked for a redo; the tracker already
		// points at the right item.
		return nil
	}

	if err := deps.agg.Record(*item, result); err != nil {
		deps.logger.Warn("recording result", zap.Error(err))
		return deps.tracker.Reopen()
	}
	if err := deps.tracker.Complete(); err != nil {
		return err
	}

	renderResult(item, result)
	return nextAction(deps)
}

// assess produces a verdict for the current item. A nil result without an
// error means the candidate changed navigation instead of answering.
func assess(ctx context.Context, deps *sessionDeps, item *session.Item) (*evaluate.Result, error) {
	if err := deps.tracker.Begin(); err != nil {
		return nil, err
	}

	switch item.Kind {
	case session.LanguageItem:
		return assessLanguage(ctx, deps, item)
	case session.ContactCenterItem:
		return assessSkill(ctx, deps, item)
	default:
		return nil, fmt.Errorf("unknown item kind %s", item.Kind)
	}
}

func assessLanguage(ctx context.Context, deps *sessionDeps, item *session.Item) (*evaluate.Result, error) {
	passage, err := deps.passages.Get(ctx, item.Name)
	if err != nil {
		return nil, retryOrQuit(err, deps.logger)
	}

	fmt.Printf("\nRead the following passage aloud (about %d seconds):\n\n%s\n\n", passage.EstimatedDuration, passage.Text)

	c, err := captureResponse(ctx, deps, passage.Code)
	if err != nil || c == nil {
		return nil, err
	}

	if err := deps.tracker.AwaitEvaluation(); err != nil {
		return nil, err
	}

	result, err := deps.langEval.Evaluate(ctx, item.Name, passage.Text, c)
	if err != nil {
		if rerr := retryOrQuit(err, deps.logger); rerr != nil {
			return nil, rerr
		}
		if rerr := deps.tracker.Reopen(); rerr != nil {
			return nil, rerr
		}
		return nil, nil
	}
	return result, nil
}

func assessSkill(ctx context.Context, deps *sessionDeps, item *session.Item) (*evaluate.Result, error) {
	// A generation failure must leave the session untouched; the item is
	// regenerated from scratch on retry.
	sc, err := deps.scenarios.Generate(ctx, item.Name, item.Category)
	if err != nil {
		return nil, retryOrQuit(err, deps.logger)
	}

	fmt.Printf("\nScenario: %s\n", sc.Text)
	if sc.CustomerProfile != "" {
		fmt.Printf("Customer: %s\n", sc.CustomerProfile)
	}
	if sc.Challenge != "" {
		fmt.Printf("Challenge: %s\n", sc.Challenge)
	}
	fmt.Println()

	c, err := captureResponse(ctx, deps, "en")
	if err != nil || c == nil {
		return nil, err
	}

	if err := deps.tracker.AwaitEvaluation(); err != nil {
		return nil, err
	}

	result, err := deps.skillEval.Evaluate(ctx, evaluate.Input{
		Scenario:     sc,
		Capture:      c,
		SkillName:    item.Name,
		CategoryName: item.Category,
	})
	if err != nil {
		if rerr := retryOrQuit(err, deps.logger); rerr != nil {
			return nil, rerr
		}
		if rerr := deps.tracker.Reopen(); rerr != nil {
			return nil, rerr
		}
		return nil, nil
	}
	return result, nil
}

// captureResponse collects the candidate's answer. A nil capture without an
// error means the candidate chose a navigation action instead.
func captureResponse(ctx context.Context, deps *sessionDeps, languageCode string) (*capture.Capture, error) {
	items := []string{PromptTypeResponse}
	if deps.recorder != nil {
		items = append([]string{PromptRecordAudio}, items...)
	}
	items = append(items, PromptQuit)

	modePrompt := promptui.Select{Label: "How do you want to respond?", Items: items}
	_, mode, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("reading response mode: %w", err)
	}

	switch mode {
	case PromptTypeResponse:
		answer := promptui.Prompt{Label: "Your response"}
		text, err := answer.Run()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		return &capture.Capture{Kind: capture.Text, Text: text}, nil

	case PromptRecordAudio:
		if err := deps.recorder.Start(ctx); err != nil {
			var perm *capture.PermissionError
			if errors.As(err, &perm) {
				deps.logger.Warn("recording unavailable, type your response instead", zap.Error(err))
				return captureTextOnly()
			}
			return nil, err
		}

		stop := promptui.Prompt{Label: "Recording. Press ENTER to stop"}
		if _, err := stop.Run(); err != nil {
			deps.recorder.Reset()
			return nil, fmt.Errorf("waiting for recording stop: %w", err)
		}

		path, err := deps.recorder.Stop()
		if err != nil {
			return nil, err
		}

		c := &capture.Capture{Kind: capture.Audio, AudioPath: path}
		// Transcription is best effort; evaluation falls back to the audio
		// endpoints when the transcript is empty.
		if err := capture.Transcribe(c, deps.store, languageCode, deps.logger); err != nil {
			deps.logger.Warn("transcription failed", zap.Error(err))
		}
		return c, nil

	case PromptQuit:
		return nil, errExit
	default:
		return nil, fmt.Errorf("invalid response mode: %s", mode)
	}
}

func captureTextOnly() (*capture.Capture, error) {
	answer := promptui.Prompt{Label: "Your response"}
	text, err := answer.Run()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &capture.Capture{Kind: capture.Text, Text: text}, nil
}

// nextAction asks where to go after a completed item.
func nextAction(deps *sessionDeps) error {
	for {
		items := []string{PromptContinue, PromptRedo}
		items = append(items, PromptBack, PromptSummary, PromptQuit)

		p := promptui.Select{Label: "What next?", Items: items}
		_, action, err := p.Run()
		if err != nil {
			return fmt.Errorf("reading next action: %w", err)
		}

		switch action {
		case PromptContinue:
			deps.tracker.Advance()
			return nil
		case PromptRedo:
			if err := deps.tracker.Reopen(); err != nil {
				return err
			}
			return nil
		case PromptBack:
			prev, kept, ok := goBack(deps)
			if !ok {
				fmt.Println("Cannot go back from here.")
				continue
			}
			if kept != nil {
				fmt.Println("\nYour previous result for this item:")
				renderResult(prev, kept)
			}
			return nil
		case PromptSummary:
			if err := deps.tracker.JumpToSummary(); err != nil {
				fmt.Printf("Not yet: %v\n", err)
				continue
			}
			return nil
		case PromptQuit:
			return errExit
		}
	}
}

// goBack steps the session back one item and returns the verdict kept for
// the reopened item, so it can be shown again before the redo. A result
// left behind by an unfinished item is dropped.
func goBack(deps *sessionDeps) (*session.Item, *evaluate.Result, bool) {
	current := deps.tracker.Current()
	if !deps.tracker.Retreat() {
		return nil, nil, false
	}
	if current != nil && current.State == session.Pending {
		deps.agg.DiscardAbandoned(current.ID)
	}

	prev := deps.tracker.Current()
	if prev == nil {
		return nil, nil, true
	}
	kept, _ := deps.agg.Get(prev.ID)
	return prev, kept, true
}

// retryOrQuit reports the failure and asks whether to try again. nil means
// retry.
func retryOrQuit(cause error, logger *zap.Logger) error {
	logger.Warn("step failed", zap.Error(cause))

	p := promptui.Select{Label: "The step failed. Try again?", Items: []string{PromptRetry, PromptQuit}}
	_, action, err := p.Run()
	if err != nil {
		return fmt.Errorf("reading retry choice: %w", err)
	}
	if action == PromptQuit {
		return errExit
	}
	return nil
}

func synthesize(ctx context.Context, completer oracle.Completer, agg *session.Aggregator, p *profile.Profile, logger *zap.Logger) (*synthesis.AggregatedProfile, error) {
	s := synthesis.New(completer, logger)
	for {
		aggregated, err := s.Synthesize(ctx, agg.Results(), p)
		if err == nil {
			return aggregated, nil
		}
		// Synthesis failure is blocking: nothing partial, just retry or
		// leave.
		if rerr := retryOrQuit(err, logger); rerr != nil {
			return nil, rerr
		}
	}
}

func resolveAuth(cmd *cobra.Command, config *Config, local *localstore.Store, logger *zap.Logger) (*auth.Context, error) {
	opts := auth.Options{
		UserID:     cmd.Flag("user-id").Value.String(),
		AgentID:    cmd.Flag("agent-id").Value.String(),
		Token:      cmd.Flag("token").Value.String(),
		ReturnURL:  cmd.Flag("return-url").Value.String(),
		Standalone: strings.EqualFold(cmd.Flag("standalone").Value.String(), "true"),
	}

	if opts.Token == "" {
		tokenFile := strings.TrimSpace(config.TokenFile)
		if tokenFile == "" {
			tokenFile = strings.TrimSpace(viper.GetString("token-file"))
		}
		if tokenFile != "" {
			token, err := secrets.Load(secrets.Source{Name: "reps token", File: tokenFile})
			if err != nil {
				return nil, err
			}
			opts.Token = token
		}
	}

	return auth.Resolve(opts, local, logger)
}

func newCompleter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (oracle.Completer, error) {
	provider := "gemini"
	if cfg != nil && cfg.Provider != "" {
		provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch provider {
	case "gemini":
		var gcfg GeminiConfig
		if cfg != nil && cfg.Gemini != nil {
			gcfg = *cfg.Gemini
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: os.Getenv("GEMINI_API_KEY"),
			File:  gcfg.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}
		return gemini.New(ctx, apiKey, gcfg.Model, gcfg.MaxRetries)

	case "openai":
		var ocfg OpenAIConfig
		if cfg != nil && cfg.OpenAI != nil {
			ocfg = *cfg.OpenAI
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: os.Getenv("OPENAI_API_KEY"),
			File:  ocfg.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}
		return openai.New(ocfg.BaseURL, apiKey, ocfg.Model)

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}

// newRecorder is best effort: without a working capture binary the session
// falls back to typed responses.
func newRecorder(cmd *cobra.Command, config *Config, logger *zap.Logger) capture.Recorder {
	if strings.EqualFold(cmd.Flag("text-only").Value.String(), "true") {
		return nil
	}

	binary := config.Recorder
	if binary == "" {
		binary = defaultRecorderBinary
	}

	rec, err := capture.NewExecRecorder(binary, nil, os.TempDir(), logger)
	if err != nil {
		logger.Warn("audio recording unavailable, responses will be typed", zap.Error(err))
		return nil
	}
	return rec
}

func dataDir(config *Config) string {
	if config.DataDir != "" {
		return config.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + app
	}
	return filepath.Join(home, "."+app)
}

func renderResult(item *session.Item, result *evaluate.Result) {
	fmt.Printf("\n%s: %.0f/100 (%s)\n", item.Name, result.OverallScore, result.Proficiency)
	if result.Feedback != "" {
		fmt.Printf("Feedback: %s\n", result.Feedback)
	}
	for _, s := range result.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, i := range result.Improvements {
		fmt.Printf("  - %s\n", i)
	}
}

func renderAggregated(a *synthesis.AggregatedProfile) {
	fmt.Printf("\n===== Your REPS Profile =====\n")
	fmt.Printf("Overall score: %.0f/100\n\n%s\n", a.OverallScore, a.ProfileSummary)

	if len(a.KeyStrengths) > 0 {
		fmt.Println("\nKey strengths:")
		for _, s := range a.KeyStrengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(a.DevelopmentAreas) > 0 {
		fmt.Println("\nDevelopment areas:")
		for _, d := range a.DevelopmentAreas {
			fmt.Printf("  - %s\n", d)
		}
	}
	if len(a.RecommendedRoles) > 0 {
		fmt.Println("\nRecommended roles:")
		for _, r := range a.RecommendedRoles {
			fmt.Printf("  %s (%.0f%% match): %s\n", r.Role, r.Confidence, r.Rationale)
		}
	}
	if a.CareerPath.Immediate != "" {
		fmt.Println("\nCareer path:")
		fmt.Printf("  now:        %s\n", a.CareerPath.Immediate)
		fmt.Printf("  short term: %s\n", a.CareerPath.ShortTerm)
		fmt.Printf("  long term:  %s\n", a.CareerPath.LongTerm)
	}
	if len(a.TrainingRecommendations) > 0 {
		fmt.Println("\nTraining recommendations:")
		for _, t := range a.TrainingRecommendations {
			fmt.Printf("  * %s\n", t)
		}
	}
}
