package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/harx-ai/reps-assessor/internal/localstore"
	"github.com/harx-ai/reps-assessor/internal/logger"
	"github.com/harx-ai/reps-assessor/internal/profile"
	"github.com/harx-ai/reps-assessor/internal/repstore"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptTechnicalSkills    = "Technical skills"
	PromptProfessionalSkills = "Professional skills"
	PromptSoftSkills         = "Soft skills"
	PromptIndustries         = "Industries"
	PromptCompanies          = "Notable companies"
	PromptContactDetails     = "Contact details"
	PromptExperienceList     = "Experience"
	PromptDoneEditing        = "Validate and exit"

	PromptAddEntry       = "Add an entry"
	PromptRemoveEntry    = "Remove an entry"
	PromptBackToSections = "Back"
)

// profileSaver is the slice of the profile store client the edit command
// writes through.
type profileSaver interface {
	UpdateBasicInfo(id string, info *profile.PersonalInfo) error
	UpdateSkills(id string, skills *profile.Skills) error
	UpdateExperience(id string, experience []profile.Experience) error
	UpdateProfile(id string, data any) error
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Review and fix the stored profile before a session",
	Run: func(cmd *cobra.Command, _ []string) {
		edit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("user-id", "", "REPS user id")
	editCmd.Flags().String("agent-id", "", "REPS agent id")
	editCmd.Flags().String("token", "", "REPS access token")
	editCmd.Flags().String("return-url", "", "url to print when editing finishes")
	editCmd.Flags().Bool("standalone", false, "run without an upstream handoff, identity from REPS_STANDALONE_* env")
}

// edit drives the interactive profile repair loop. Every change is pushed
// to the store as soon as it is made, so leaving mid-way loses nothing.
func edit(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
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

	p, err := store.GetProfile()
	if err != nil {
		logger.Fatal("fetching the profile", zap.Error(err),
			zap.String("hint", "run 'reps-assessor import' to create a profile from your CV first"),
		)
	}

	for {
		sections := []string{
			PromptTechnicalSkills, PromptProfessionalSkills, PromptSoftSkills,
			PromptIndustries, PromptCompanies,
			PromptContactDetails, PromptExperienceList,
			PromptDoneEditing,
		}
		prompt := promptui.Select{Label: "What do you want to edit?", Items: sections}
		_, section, err := prompt.Run()
		if err != nil {
			logger.Fatal("reading edit choice", zap.Error(err))
		}

		if section == PromptDoneEditing {
			break
		}
		if err := editSection(p, store, section); err != nil {
			logger.Warn("edit failed, nothing was saved", zap.Error(err))
		}
	}

	if err := p.Validate(); err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			first := verr.First()
			logger.Warn("profile is still incomplete",
				zap.String("field", first.Field),
				zap.String("problem", first.Message),
			)
			return
		}
		logger.Warn("validating the profile", zap.Error(err))
		return
	}

	fmt.Printf("\nProfile is ready. Run '%s run' to start the assessment.\n", app)
	if authCtx.ReturnURL != "" {
		fmt.Printf("Continue at: %s\n", authCtx.ReturnURL)
	}
}

func editSection(p *profile.Profile, store profileSaver, section string) error {
	switch section {
	case PromptTechnicalSkills:
		return editList(p, store, profile.EditTechnical)
	case PromptProfessionalSkills:
		return editList(p, store, profile.EditProfessional)
	case PromptSoftSkills:
		return editList(p, store, profile.EditSoft)
	case PromptIndustries:
		return editList(p, store, profile.EditIndustry)
	case PromptCompanies:
		return editList(p, store, profile.EditCompany)
	case PromptContactDetails:
		return editBasicInfo(p, store)
	case PromptExperienceList:
		return editExperience(p, store)
	default:
		return fmt.Errorf("unknown edit section: %s", section)
	}
}

func editList(p *profile.Profile, store profileSaver, kind profile.EditKind) error {
	action := promptui.Select{
		Label: fmt.Sprintf("Edit %ss", kind),
		Items: []string{PromptAddEntry, PromptRemoveEntry, PromptBackToSections},
	}
	_, choice, err := action.Run()
	if err != nil {
		return fmt.Errorf("reading list action: %w", err)
	}

	switch choice {
	case PromptAddEntry:
		value := promptui.Prompt{Label: fmt.Sprintf("New %s", kind)}
		text, err := value.Run()
		if err != nil {
			return fmt.Errorf("reading new entry: %w", err)
		}
		return addEntry(p, store, kind, text)

	case PromptRemoveEntry:
		entries := entriesFor(p, kind)
		if len(entries) == 0 {
			fmt.Println("Nothing to remove.")
			return nil
		}
		pick := promptui.Select{Label: fmt.Sprintf("Remove which %s?", kind), Items: entries}
		_, value, err := pick.Run()
		if err != nil {
			return fmt.Errorf("reading entry to remove: %w", err)
		}
		return removeEntry(p, store, kind, value)

	default:
		return nil
	}
}

// addEntry applies one Add edit and persists the block it touched. Blank
// values are ignored.
func addEntry(p *profile.Profile, store profileSaver, kind profile.EditKind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if err := p.Add(kind, value); err != nil {
		return err
	}
	return persistEdit(p, store, kind)
}

// removeEntry applies one Remove edit and persists the block it touched.
func removeEntry(p *profile.Profile, store profileSaver, kind profile.EditKind, value string) error {
	if err := p.Remove(kind, value); err != nil {
		return err
	}
	return persistEdit(p, store, kind)
}

// persistEdit pushes the block an edit kind belongs to: the skills endpoint
// for skill lists, a partial profile update for the professional summary
// lists.
func persistEdit(p *profile.Profile, store profileSaver, kind profile.EditKind) error {
	switch kind {
	case profile.EditTechnical, profile.EditProfessional, profile.EditSoft:
		return store.UpdateSkills(p.ID, &p.Skills)
	case profile.EditIndustry, profile.EditCompany:
		return store.UpdateProfile(p.ID, map[string]any{
			"professionalSummary": p.ProfessionalSummary,
		})
	default:
		return fmt.Errorf("unknown edit kind: %v", kind)
	}
}

// entriesFor lists the current values of the list an edit kind targets.
func entriesFor(p *profile.Profile, kind profile.EditKind) []string {
	switch kind {
	case profile.EditTechnical:
		return skillNames(p.Skills.Technical)
	case profile.EditProfessional:
		return skillNames(p.Skills.Professional)
	case profile.EditSoft:
		return skillNames(p.Skills.Soft)
	case profile.EditIndustry:
		return p.ProfessionalSummary.Industries
	case profile.EditCompany:
		return p.ProfessionalSummary.NotableCompanies
	default:
		return nil
	}
}

func skillNames(skills []profile.RatedSkill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Skill)
	}
	return out
}

func editBasicInfo(p *profile.Profile, store profileSaver) error {
	fields := []struct {
		label  string
		target *string
	}{
		{"Name", &p.PersonalInfo.Name},
		{"Location", &p.PersonalInfo.Location},
		{"Email", &p.PersonalInfo.Email},
		{"Phone", &p.PersonalInfo.Phone},
	}
	for _, f := range fields {
		prompt := promptui.Prompt{Label: f.label, Default: *f.target}
		value, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("reading %s: %w", strings.ToLower(f.label), err)
		}
		*f.target = strings.TrimSpace(value)
	}
	return store.UpdateBasicInfo(p.ID, &p.PersonalInfo)
}

func editExperience(p *profile.Profile, store profileSaver) error {
	if len(p.Experience) == 0 {
		fmt.Println("No experience entries.")
		return nil
	}

	labels := make([]string, 0, len(p.Experience)+1)
	for _, e := range p.Experience {
		labels = append(labels, fmt.Sprintf("%s at %s (%s)", e.Title, e.Company, e.Duration))
	}
	labels = append(labels, PromptBackToSections)

	pick := promptui.Select{Label: "Remove which entry?", Items: labels}
	idx, choice, err := pick.Run()
	if err != nil {
		return fmt.Errorf("reading experience choice: %w", err)
	}
	if choice == PromptBackToSections {
		return nil
	}
	return removeExperience(p, store, idx)
}

// removeExperience drops one experience entry and pushes the shortened
// list.
func removeExperience(p *profile.Profile, store profileSaver, index int) error {
	if index < 0 || index >= len(p.Experience) {
		return fmt.Errorf("no experience entry %d", index)
	}
	p.Experience = append(p.Experience[:index:index], p.Experience[index+1:]...)
	return store.UpdateExperience(p.ID, p.Experience)
}
