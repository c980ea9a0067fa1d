package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/client/api"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

var errNotLoggedIn = api.ErrNotLoggedIn

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.OwnProfile(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

func (a *App) Profiles(ctx context.Context) error {
	list, err := a.api.Profiles(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No profiles yet.")
		return nil
	}
	for _, p := range list {
		printProfileLine(a.out, p)
	}
	return nil
}

func (a *App) Handle(ctx context.Context, handle string) error {
	p, err := a.api.ProfileByHandle(ctx, handle)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// EditProfile asks for every profile field. An empty answer leaves the field
// as it is; a single "-" clears it.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	var in validation.ProfileInput
	fields := []struct {
		prompt string
		dst    *optional.Value[string]
	}{
		{"Handle", &in.Handle},
		{"Status (e.g. Developer, Student)", &in.Status},
		{"Company", &in.Company},
		{"Website", &in.Website},
		{"Location", &in.Location},
		{"Skills (comma separated)", &in.Skills},
		{"GitHub username", &in.GitHubUser},
		{"YouTube URL", &in.YouTube},
		{"Twitter URL", &in.Twitter},
		{"Facebook URL", &in.Facebook},
		{"LinkedIn URL", &in.LinkedIn},
		{"Instagram URL", &in.Instagram},
	}

	fmt.Fprintln(a.out, "Press Enter to keep a value, '-' to clear it.")
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = answer(v)
	}

	bio, err := getMultiline(a.reader, "Bio", a.out)
	if err != nil {
		return err
	}
	in.Bio = answer(bio)

	p, err := a.api.UpsertProfile(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Profile saved.")
	printProfile(a.out, p)
	return nil
}

func answer(v string) optional.Value[string] {
	switch v {
	case "":
		return optional.Value[string]{}
	case "-":
		return optional.Of("")
	default:
		return optional.Of(v)
	}
}

func (a *App) AddExperience(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	var in validation.ExperienceInput
	if err := a.ask(
		prompt{"Job title", &in.Title},
		prompt{"Company", &in.Company},
		prompt{"Location", &in.Location},
		prompt{"From (YYYY-MM-DD)", &in.From},
		prompt{"To (YYYY-MM-DD, empty if current)", &in.To},
	); err != nil {
		return err
	}
	in.Current = in.To == ""

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	in.Description = desc

	p, err := a.api.AddExperience(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Experience added (id %s).\n", p.Experience[0].ID)
	return nil
}

func (a *App) AddEducation(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	var in validation.EducationInput
	if err := a.ask(
		prompt{"School", &in.School},
		prompt{"Degree", &in.Degree},
		prompt{"Field of study", &in.FieldOfStudy},
		prompt{"From (YYYY-MM-DD)", &in.From},
		prompt{"To (YYYY-MM-DD, empty if current)", &in.To},
	); err != nil {
		return err
	}
	in.Current = in.To == ""

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	in.Description = desc

	p, err := a.api.AddEducation(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Education added (id %s).\n", p.Education[0].ID)
	return nil
}

func (a *App) RemoveExperience(ctx context.Context, id string) error {
	if _, err := a.api.RemoveExperience(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Experience removed.")
	return nil
}

func (a *App) RemoveEducation(ctx context.Context, id string) error {
	if _, err := a.api.RemoveEducation(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Education removed.")
	return nil
}

type prompt struct {
	text string
	dst  *string
}

func (a *App) ask(prompts ...prompt) error {
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}
	return nil
}
