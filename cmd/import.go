package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/harx-ai/reps-assessor/internal/cvimport"
	"github.com/harx-ai/reps-assessor/internal/localstore"
	"github.com/harx-ai/reps-assessor/internal/logger"
	"github.com/harx-ai/reps-assessor/internal/profile"
	"github.com/harx-ai/reps-assessor/internal/repstore"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <cv-file>",
	Short: "Build a draft profile from a CV and push it to the profile store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("user-id", "", "REPS user id")
	importCmd.Flags().String("agent-id", "", "REPS agent id")
	importCmd.Flags().String("token", "", "REPS access token")
	importCmd.Flags().String("return-url", "", "url to print when the import finishes")
	importCmd.Flags().Bool("standalone", false, "run without an upstream handoff, identity from REPS_STANDALONE_* env")
	importCmd.Flags().Bool("dry-run", false, "print the draft profile without creating it on the store")
}

func runImport(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	text, err := cvimport.ExtractText(path)
	if err != nil {
		var unsupported *cvimport.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			logger.Fatal("cannot read this CV", zap.Error(err),
				zap.String("hint", "export the document to PDF and import again"),
			)
		}
		logger.Fatal("extracting CV text", zap.Error(err))
	}
	logger.Info("CV text extracted", zap.String("file", path), zap.Int("chars", len(text)))

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ai client", zap.Error(err))
	}

	draft, err := cvimport.NewImporter(completer, logger).Import(ctx, text)
	if err != nil {
		logger.Fatal("structuring the CV", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(draft, "", "  ")
	fmt.Printf("%s\n", pretty)

	if err := draft.Validate(); err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			first := verr.First()
			logger.Warn("draft profile is incomplete, fix it with 'reps-assessor edit' before running a session",
				zap.String("field", first.Field),
				zap.String("problem", first.Message),
			)
		} else {
			logger.Warn("validating the draft profile", zap.Error(err))
		}
	}

	if cmd.Flag("dry-run").Value.String() == "true" {
		logger.Info("dry run, draft not pushed")
		return
	}

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

	created, err := store.CreateProfile(draft)
	if err != nil {
		logger.Fatal("creating the profile on the store", zap.Error(err))
	}

	logger.Info("profile created",
		zap.String("profile_id", created.ID),
		zap.Int("languages", len(created.PersonalInfo.Languages)),
	)
	fmt.Printf("\nProfile created. Run '%s run' to start the assessment.\n", app)
}
