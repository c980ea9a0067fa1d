package models

import "time"

// Social holds the fixed set of social links a profile may carry.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a job entry. ID is assigned on insertion and never changes.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a school entry. ID is assigned on insertion and never changes.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the public professional profile owned by exactly one user.
// Experience and Education are ordered most-recent-first.
type Profile struct {
	ID         string       `json:"id"`
	User       UserRef      `json:"user"`
	Handle     string       `json:"handle"`
	Company    string       `json:"company,omitempty"`
	Website    string       `json:"website,omitempty"`
	Location   string       `json:"location,omitempty"`
	Bio        string       `json:"bio,omitempty"`
	Status     string       `json:"status"`
	GitHubUser string       `json:"githubuser,omitempty"`
	Skills     []string     `json:"skills"`
	Social     Social       `json:"social"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	CreatedAt  time.Time    `json:"date"`
}

// Clone returns a deep copy, so callers can mutate without aliasing
// slices held by a store.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]Experience{}, p.Experience...)
	c.Education = append([]Education{}, p.Education...)
	return &c
}

// SubRecordKind names an ordered sub-record list of a profile.
type SubRecordKind string

const (
	KindExperience SubRecordKind = "experience"
	KindEducation  SubRecordKind = "education"
)
