package application

import (
	"context"
	"fmt"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/dfryer1193/teamdojo/dojo/domain"
)

// TrainingService manages trainings and the skills they teach.
type TrainingService interface {
	// Save creates the training when it has no ID, otherwise updates it.
	// The training and its skill links are written together.
	Save(ctx context.Context, dto *api.Training) (*api.Training, error)

	// FindAll returns a page of trainings without their skills.
	FindAll(ctx context.Context, pageable domain.Pageable) (*domain.Page[api.Training], error)

	// FindAllWithEagerRelationships returns a page of trainings with their skills.
	FindAllWithEagerRelationships(ctx context.Context, pageable domain.Pageable) (*domain.Page[api.Training], error)

	// FindOne returns the training with its skills, or domain.ErrNotFound.
	FindOne(ctx context.Context, id int64) (*api.Training, error)

	// Delete removes the training. Deleting a missing training is not an error.
	Delete(ctx context.Context, id int64) error
}

type TrainingServiceImpl struct {
	repo domain.TrainingRepository
}

func NewTrainingService(repo domain.TrainingRepository) TrainingService {
	return &TrainingServiceImpl{
		repo: repo,
	}
}

func (s *TrainingServiceImpl) Save(ctx context.Context, dto *api.Training) (*api.Training, error) {
	t := trainingToDomain(dto)

	var err error
	if dto.ID == nil {
		err = s.repo.CreateTraining(ctx, t)
	} else {
		err = s.repo.UpdateTraining(ctx, t)
	}
	if err != nil {
		return nil, fmt.Errorf("could not save training %q: %w", t.Title, err)
	}
	return trainingFromDomain(t), nil
}

func (s *TrainingServiceImpl) FindAll(ctx context.Context, pageable domain.Pageable) (*domain.Page[api.Training], error) {
	page, err := s.repo.ListTrainings(ctx, pageable)
	if err != nil {
		return nil, fmt.Errorf("could not list trainings: %w", err)
	}
	return domain.MapPage(page, toTrainingDTO), nil
}

func (s *TrainingServiceImpl) FindAllWithEagerRelationships(ctx context.Context, pageable domain.Pageable) (*domain.Page[api.Training], error) {
	page, err := s.repo.ListTrainingsWithSkills(ctx, pageable)
	if err != nil {
		return nil, fmt.Errorf("could not list trainings with skills: %w", err)
	}
	return domain.MapPage(page, toTrainingDTO), nil
}

func (s *TrainingServiceImpl) FindOne(ctx context.Context, id int64) (*api.Training, error) {
	t, err := s.repo.GetTraining(ctx, id)
	if err != nil {
		return nil, err
	}
	return trainingFromDomain(t), nil
}

func (s *TrainingServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTraining(ctx, id); err != nil {
		return fmt.Errorf("could not delete training %d: %w", id, err)
	}
	return nil
}

func trainingToDomain(dto *api.Training) *domain.Training {
	t := &domain.Training{
		Title:       dto.Title,
		Description: dto.Description,
		Contact:     dto.Contact,
		Link:        dto.Link,
		IsOfficial:  deref(dto.IsOfficial),
		SuggestedBy: dto.SuggestedBy,
		ID:          deref(dto.ID),
		ValidUntil:  deref(dto.ValidUntil),
	}

	if len(dto.Skills) > 0 {
		t.Skills = make([]domain.Skill, 0, len(dto.Skills))
		for _, s := range dto.Skills {
			t.Skills = append(t.Skills, domain.Skill{ID: deref(s.ID), Title: s.Title})
		}
	}

	return t
}

func toTrainingDTO(t domain.Training) api.Training {
	return *trainingFromDomain(&t)
}

func trainingFromDomain(t *domain.Training) *api.Training {
	id := t.ID
	isOfficial := t.IsOfficial
	dto := &api.Training{
		ID:          &id,
		Title:       t.Title,
		Description: t.Description,
		Contact:     t.Contact,
		Link:        t.Link,
		IsOfficial:  &isOfficial,
		SuggestedBy: t.SuggestedBy,
		ValidUntil:  optional(t.ValidUntil),
	}

	if t.Skills != nil {
		dto.Skills = make([]api.Skill, 0, len(t.Skills))
		for _, s := range t.Skills {
			skillID := s.ID
			dto.Skills = append(dto.Skills, api.Skill{ID: &skillID, Title: s.Title})
		}
	}

	return dto
}
