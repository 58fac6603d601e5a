package domain

import (
	"context"
	"time"
)

// Skill is a competence a team can acquire. Trainings reference skills many-to-many.
type Skill struct {
	ID    int64
	Title string
}

// Training is an offer that helps a team acquire one or more skills.
// Skills is only populated by the repository methods that load relationships.
type Training struct {
	ID          int64
	Title       string
	Description string
	Contact     string
	Link        string
	ValidUntil  time.Time
	IsOfficial  bool
	SuggestedBy string
	Skills      []Skill
}

// TrainingSortProperties lists the properties a page of trainings can be ordered by.
var TrainingSortProperties = []string{"id", "title", "validUntil", "isOfficial", "suggestedBy"}

type TrainingRepository interface {
	// CreateTraining inserts the training with its skill links and assigns its ID.
	CreateTraining(ctx context.Context, t *Training) error

	// UpdateTraining overwrites the stored training with the same ID and replaces its
	// skill links atomically. It fails when no such training exists.
	UpdateTraining(ctx context.Context, t *Training) error

	// GetTraining retrieves a training with its skills. Returns ErrNotFound if it does not exist.
	GetTraining(ctx context.Context, id int64) (*Training, error)

	ListTrainings(ctx context.Context, pageable Pageable) (*Page[Training], error)

	// ListTrainingsWithSkills is ListTrainings with the skills of every training loaded
	// in the same read transaction.
	ListTrainingsWithSkills(ctx context.Context, pageable Pageable) (*Page[Training], error)

	DeleteTraining(ctx context.Context, id int64) error
}
