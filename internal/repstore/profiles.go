package repstore

import (
	"fmt"
	"net/http"

	"github.com/harx-ai/reps-assessor/internal/profile"
)

const apiProfilesPath = "/profiles"

// GetProfile fetches the caller's profile. The returned copy supersedes any
// local one: the store may have normalized fields server-side.
func (c *Client) GetProfile() (*profile.Profile, error) {
	var p profile.Profile
	if err := c.getJSON("get profile", c.APIURL+apiProfilesPath, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile creates the profile and returns the stored copy, including
// the assigned ID.
func (c *Client) CreateProfile(p *profile.Profile) (*profile.Profile, error) {
	var created profile.Profile
	if err := c.sendJSON("create profile", http.MethodPost, c.APIURL+apiProfilesPath, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBasicInfo replaces the personal info block of the stored profile.
func (c *Client) UpdateBasicInfo(id string, info *profile.PersonalInfo) error {
	url := fmt.Sprintf("%s%s/%s/basic-info", c.APIURL, apiProfilesPath, id)
	return c.sendJSON("update basic info", http.MethodPut, url, info, nil)
}

// UpdateProfile sends a partial profile update. The store merges the
// provided top-level blocks into the stored document; untouched blocks keep
// their current value.
func (c *Client) UpdateProfile(id string, data any) error {
	url := fmt.Sprintf("%s%s/%s", c.APIURL, apiProfilesPath, id)
	return c.sendJSON("update profile", http.MethodPut, url, data, nil)
}

// UpdateExperience replaces the experience list of the stored profile.
func (c *Client) UpdateExperience(id string, experience []profile.Experience) error {
	url := fmt.Sprintf("%s%s/%s/experience", c.APIURL, apiProfilesPath, id)
	body := map[string]any{"experience": experience}
	return c.sendJSON("update experience", http.MethodPut, url, body, nil)
}

// UpdateSkills replaces the skills block of the stored profile.
func (c *Client) UpdateSkills(id string, skills *profile.Skills) error {
	url := fmt.Sprintf("%s%s/%s/skills", c.APIURL, apiProfilesPath, id)
	body := map[string]any{"skills": skills}
	return c.sendJSON("update skills", http.MethodPut, url, body, nil)
}

// LanguageAssessment is the payload persisted after one language item
// completes.
type LanguageAssessment struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
	Results     any    `json:"results"`
}

// AddLanguageAssessment persists one completed language assessment.
func (c *Client) AddLanguageAssessment(id string, a *LanguageAssessment) error {
	url := fmt.Sprintf("%s%s/%s/language-assessment", c.APIURL, apiProfilesPath, id)
	return c.sendJSON("save language assessment", http.MethodPost, url, a, nil)
}

// AddContactCenterAssessment persists one completed contact center skill
// assessment.
func (c *Client) AddContactCenterAssessment(id string, assessment any) error {
	url := fmt.Sprintf("%s%s/%s/contact-center-assessment", c.APIURL, apiProfilesPath, id)
	body := map[string]any{"assessment": assessment}
	return c.sendJSON("save contact center assessment", http.MethodPost, url, body, nil)
}
