package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

func printProfileLine(w io.Writer, p *models.Profile) {
	line := fmt.Sprintf("@%s  %s  %s", p.Handle, p.User.Name, p.Status)
	if p.Company != "" {
		line += " at " + p.Company
	}
	if len(p.Skills) > 0 {
		line += "  [" + strings.Join(p.Skills, ", ") + "]"
	}
	fmt.Fprintln(w, line)
}

func printProfile(w io.Writer, p *models.Profile) {
	fmt.Fprintf(w, "%s (@%s)\n", p.User.Name, p.Handle)
	fmt.Fprintf(w, "  status:   %s\n", p.Status)
	optionalLine(w, "company", p.Company)
	optionalLine(w, "website", p.Website)
	optionalLine(w, "location", p.Location)
	optionalLine(w, "github", p.GitHubUser)
	if len(p.Skills) > 0 {
		fmt.Fprintf(w, "  skills:   %s\n", strings.Join(p.Skills, ", "))
	}
	optionalLine(w, "bio", p.Bio)

	if len(p.Experience) > 0 {
		fmt.Fprintln(w, "  experience:")
		for _, e := range p.Experience {
			fmt.Fprintf(w, "    [%s] %s at %s, %s\n", e.ID, e.Title, e.Company, period(e.From, e.To))
		}
	}
	if len(p.Education) > 0 {
		fmt.Fprintln(w, "  education:")
		for _, e := range p.Education {
			fmt.Fprintf(w, "    [%s] %s, %s in %s, %s\n", e.ID, e.School, e.Degree, e.FieldOfStudy, period(e.From, e.To))
		}
	}
}

func optionalLine(w io.Writer, label, v string) {
	if v == "" {
		return
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", v)
}

func period(from time.Time, to *time.Time) string {
	end := "now"
	if to != nil {
		end = to.Format(time.DateOnly)
	}
	return from.Format(time.DateOnly) + " - " + end
}

func printPost(w io.Writer, p *models.Post) {
	fmt.Fprintf(w, "[%s] %s, %s\n", p.ID, p.Name, p.CreatedAt.Format(time.DateTime))
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(p.Text, "\n", "\n  "))
	fmt.Fprintf(w, "  likes: %d  comments: %d\n", len(p.Likes), len(p.Comments))
}
