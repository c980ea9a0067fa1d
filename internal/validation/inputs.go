package validation

import "github.com/dmitrijs2005/devconnector/internal/optional"

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2,omitempty"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileInput is a partial profile. Absent keys are left untouched by the
// merge; Skills is a comma-separated list. Social links are accepted at the
// top level of the body.
type ProfileInput struct {
	Handle     optional.Value[string] `json:"handle"`
	Company    optional.Value[string] `json:"company"`
	Website    optional.Value[string] `json:"website"`
	Location   optional.Value[string] `json:"location"`
	Bio        optional.Value[string] `json:"bio"`
	Status     optional.Value[string] `json:"status"`
	GitHubUser optional.Value[string] `json:"githubuser"`
	Skills     optional.Value[string] `json:"skills"`
	YouTube    optional.Value[string] `json:"youtube"`
	Twitter    optional.Value[string] `json:"twitter"`
	Facebook   optional.Value[string] `json:"facebook"`
	LinkedIn   optional.Value[string] `json:"linkedin"`
	Instagram  optional.Value[string] `json:"instagram"`
}

// ExperienceInput is the body of an add-experience request. Dates are
// "2006-01-02" or RFC 3339.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is the body of an add-education request.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// PostInput is the body of a create-post or comment request.
type PostInput struct {
	Text string `json:"text"`
}
