package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/validation"
)

// ProfileService is the profile merge engine: partial upserts, sub-record
// insertion and removal, and account deletion.
//
// Updates read, modify and write the whole profile, so concurrent edits of
// the same profile are last-write-wins.
type ProfileService struct {
	repomanager repomanager.RepositoryManager
}

func NewProfileService(m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{repomanager: m}
}

func noProfile() error {
	return common.NewFieldError(common.ErrorNotFound, "noprofile", "There is no profile for this user")
}

func handleTaken() error {
	return common.NewFieldError(common.ErrorConflict, "handle", "That handle already exists")
}

// Upsert creates the owner's profile or merges the supplied fields into it.
// Absent fields keep their stored values.
func (s *ProfileService) Upsert(ctx context.Context, ownerID string, in validation.ProfileInput) (*models.Profile, error) {
	existing, err := s.repomanager.Profiles().GetByUserID(ctx, ownerID)
	switch {
	case err == nil:
		return s.update(ctx, existing, in)
	case errors.Is(err, common.ErrorNotFound):
		return s.create(ctx, ownerID, in)
	default:
		return nil, internalError("load profile", err)
	}
}

func (s *ProfileService) create(ctx context.Context, ownerID string, in validation.ProfileInput) (*models.Profile, error) {
	if err := validation.Profile(in, true); err != nil {
		return nil, err
	}

	p := &models.Profile{
		ID:         newID(),
		User:       models.UserRef{ID: ownerID},
		Skills:     []string{},
		Experience: []models.Experience{},
		Education:  []models.Education{},
		CreatedAt:  now(),
	}
	merge(p, in)

	if err := s.ensureHandleFree(ctx, p.Handle, ownerID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Profiles()
	if err := repo.Create(ctx, p); err != nil {
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return nil, internalError("create profile", err)
		}
		// lost a race: either the handle or the owner's profile appeared
		existing, getErr := repo.GetByUserID(ctx, ownerID)
		if getErr != nil {
			return nil, handleTaken()
		}
		return s.update(ctx, existing, in)
	}

	created, err := repo.GetByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// owner deleted concurrently
			return nil, noProfile()
		}
		return nil, internalError("load profile", err)
	}
	return created, nil
}

func (s *ProfileService) update(ctx context.Context, p *models.Profile, in validation.ProfileInput) (*models.Profile, error) {
	if err := validation.Profile(in, false); err != nil {
		return nil, err
	}

	oldHandle := p.Handle
	p = p.Clone()
	merge(p, in)

	if p.Handle != oldHandle {
		if err := s.ensureHandleFree(ctx, p.Handle, p.User.ID); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureHandleFree fails with Conflict if handle belongs to another owner.
func (s *ProfileService) ensureHandleFree(ctx context.Context, handle, ownerID string) error {
	other, err := s.repomanager.Profiles().GetByHandle(ctx, handle)
	switch {
	case err == nil:
		if other.User.ID != ownerID {
			return handleTaken()
		}
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return internalError("lookup handle", err)
	}
}

func (s *ProfileService) save(ctx context.Context, p *models.Profile) error {
	if err := s.repomanager.Profiles().Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return handleTaken()
		case errors.Is(err, common.ErrorNotFound):
			return noProfile()
		default:
			return internalError("save profile", err)
		}
	}
	return nil
}

// merge applies the present fields of in to p.
func merge(p *models.Profile, in validation.ProfileInput) {
	applyTrimmed(&p.Handle, in.Handle)
	applyTrimmed(&p.Company, in.Company)
	applyTrimmed(&p.Website, in.Website)
	applyTrimmed(&p.Location, in.Location)
	applyTrimmed(&p.Bio, in.Bio)
	applyTrimmed(&p.Status, in.Status)
	applyTrimmed(&p.GitHubUser, in.GitHubUser)

	optional.Map(in.Skills, SplitSkills).Apply(&p.Skills)

	applyTrimmed(&p.Social.YouTube, in.YouTube)
	applyTrimmed(&p.Social.Twitter, in.Twitter)
	applyTrimmed(&p.Social.Facebook, in.Facebook)
	applyTrimmed(&p.Social.LinkedIn, in.LinkedIn)
	applyTrimmed(&p.Social.Instagram, in.Instagram)
}

func applyTrimmed(dst *string, v optional.Value[string]) {
	optional.Map(v, strings.TrimSpace).Apply(dst)
}

// SplitSkills turns "go, sql,,go" into [go sql]: trimmed, non-empty, first
// occurrence wins.
func SplitSkills(s string) []string {
	skills := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(skills, part) {
			continue
		}
		skills = append(skills, part)
	}
	return skills
}

// GetOwn returns the caller's profile.
func (s *ProfileService) GetOwn(ctx context.Context, ownerID string) (*models.Profile, error) {
	return s.get(ctx, func(ctx context.Context) (*models.Profile, error) {
		return s.repomanager.Profiles().GetByUserID(ctx, ownerID)
	})
}

// GetByUserID returns the profile owned by userID.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.GetOwn(ctx, userID)
}

// GetByHandle returns the profile with the given handle.
func (s *ProfileService) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.get(ctx, func(ctx context.Context) (*models.Profile, error) {
		return s.repomanager.Profiles().GetByHandle(ctx, handle)
	})
}

func (s *ProfileService) get(ctx context.Context, load func(context.Context) (*models.Profile, error)) (*models.Profile, error) {
	p, err := load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, noProfile()
		}
		return nil, internalError("load profile", err)
	}
	return p, nil
}

// List returns every profile, oldest first.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	list, err := s.repomanager.Profiles().List(ctx)
	if err != nil {
		return nil, internalError("list profiles", err)
	}
	return list, nil
}

// AddExperience inserts a new experience entry at the front.
func (s *ProfileService) AddExperience(ctx context.Context, ownerID string, in validation.ExperienceInput) (*models.Profile, error) {
	if err := validation.Experience(in); err != nil {
		return nil, err
	}

	from, to := parseRange(in.From, in.To, in.Current)
	e := models.Experience{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}

	return s.modify(ctx, ownerID, func(p *models.Profile) error {
		p.Experience = slices.Insert(p.Experience, 0, e)
		return nil
	})
}

// AddEducation inserts a new education entry at the front.
func (s *ProfileService) AddEducation(ctx context.Context, ownerID string, in validation.EducationInput) (*models.Profile, error) {
	if err := validation.Education(in); err != nil {
		return nil, err
	}

	from, to := parseRange(in.From, in.To, in.Current)
	e := models.Education{
		ID:           newID(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}

	return s.modify(ctx, ownerID, func(p *models.Profile) error {
		p.Education = slices.Insert(p.Education, 0, e)
		return nil
	})
}

// parseRange converts validated dates. A current entry has no end date.
func parseRange(fromStr, toStr string, current bool) (from time.Time, to *time.Time) {
	from, _ = validation.ParseDate(fromStr)
	if current || strings.TrimSpace(toStr) == "" {
		return from, nil
	}
	t, err := validation.ParseDate(toStr)
	if err != nil {
		return from, nil
	}
	return from, &t
}

// RemoveExperience deletes the experience entry with the given id. An
// unknown id is NotFound and leaves the profile untouched.
func (s *ProfileService) RemoveExperience(ctx context.Context, ownerID, id string) (*models.Profile, error) {
	return s.modify(ctx, ownerID, func(p *models.Profile) error {
		list, ok := removeByID(p.Experience, id, func(e models.Experience) string { return e.ID })
		if !ok {
			return subRecordNotFound(models.KindExperience)
		}
		p.Experience = list
		return nil
	})
}

// RemoveEducation deletes the education entry with the given id.
func (s *ProfileService) RemoveEducation(ctx context.Context, ownerID, id string) (*models.Profile, error) {
	return s.modify(ctx, ownerID, func(p *models.Profile) error {
		list, ok := removeByID(p.Education, id, func(e models.Education) string { return e.ID })
		if !ok {
			return subRecordNotFound(models.KindEducation)
		}
		p.Education = list
		return nil
	})
}

func subRecordNotFound(kind models.SubRecordKind) error {
	return common.NewFieldError(common.ErrorNotFound, string(kind), "No "+string(kind)+" entry with that id")
}

// removeByID drops the single element whose id matches, keeping the order
// of the rest.
func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	i := slices.IndexFunc(list, func(v T) bool { return idOf(v) == id })
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}

// modify loads the owner's profile, applies fn and saves the result.
func (s *ProfileService) modify(ctx context.Context, ownerID string, fn func(p *models.Profile) error) (*models.Profile, error) {
	p, err := s.GetOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAccount removes the owner's profile, posts and credential record in
// one transaction. Any failing step rolls the whole operation back.
func (s *ProfileService) DeleteAccount(ctx context.Context, ownerID string) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		if err := tx.Profiles().DeleteByUserID(ctx, ownerID); err != nil {
			return err
		}
		if err := tx.Posts().DeleteByUserID(ctx, ownerID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, ownerID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internalError("delete account", err)
	}
	return nil
}
