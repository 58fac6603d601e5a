package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/dfryer1193/teamdojo/shared/db"
)

var _ domain.TrainingRepository = (*SQLiteTrainingRepository)(nil)

var trainingSortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"validUntil":  "valid_until",
	"isOfficial":  "is_official",
	"suggestedBy": "suggested_by",
}

// SQLiteTrainingRepository implements domain.TrainingRepository using SQL database (SQLite)
type SQLiteTrainingRepository struct {
	db *sql.DB
}

// NewTrainingRepository creates a new SQLiteTrainingRepository from a standard sql.DB
func NewTrainingRepository(sqlDB *sql.DB) *SQLiteTrainingRepository {
	return &SQLiteTrainingRepository{
		db: sqlDB,
	}
}

const trainingColumns = `id, title, description, contact, link, valid_until, is_official, suggested_by`

const insertTrainingQuery = `
	INSERT INTO trainings (title, description, contact, link, valid_until, is_official, suggested_by)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateTrainingQuery = `
	UPDATE trainings SET
		title = ?,
		description = ?,
		contact = ?,
		link = ?,
		valid_until = ?,
		is_official = ?,
		suggested_by = ?
	WHERE id = ?
`

func validateTraining(t *domain.Training) error {
	if t == nil {
		return fmt.Errorf("training cannot be nil")
	}
	if t.Title == "" {
		return fmt.Errorf("training title cannot be empty")
	}
	return nil
}

func trainingArgs(t *domain.Training) []any {
	return []any{
		t.Title,
		nullString(t.Description),
		nullString(t.Contact),
		nullString(t.Link),
		nullTime(t.ValidUntil),
		t.IsOfficial,
		nullString(t.SuggestedBy),
	}
}

// CreateTraining inserts the training and links its skills within a transaction.
// Any ID already set on t is ignored. Skills without an ID are looked up by title
// and created when missing.
func (r *SQLiteTrainingRepository) CreateTraining(ctx context.Context, t *domain.Training) error {
	if err := validateTraining(t); err != nil {
		return err
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		result, err := db.GetExecutor(txCtx, r.db).ExecContext(txCtx, insertTrainingQuery, trainingArgs(t)...)
		if err != nil {
			return fmt.Errorf("failed to insert training: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get training id: %w", err)
		}
		t.ID = id

		return r.linkSkills(txCtx, t)
	})
}

// UpdateTraining overwrites the training row with t.ID and replaces its skill links
// within a transaction. Updating an ID that is not stored is an error.
func (r *SQLiteTrainingRepository) UpdateTraining(ctx context.Context, t *domain.Training) error {
	if err := validateTraining(t); err != nil {
		return err
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		result, err := executor.ExecContext(txCtx, updateTrainingQuery, append(trainingArgs(t), t.ID)...)
		if err != nil {
			return fmt.Errorf("failed to update training %d: %w", t.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update training %d: %w", t.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("cannot update training %d: no such row", t.ID)
		}

		if _, err := executor.ExecContext(txCtx, "DELETE FROM training_skills WHERE training_id = ?", t.ID); err != nil {
			return fmt.Errorf("failed to clear skills of training %d: %w", t.ID, err)
		}

		return r.linkSkills(txCtx, t)
	})
}

// linkSkills resolves every skill of t and links it to the training row.
func (r *SQLiteTrainingRepository) linkSkills(ctx context.Context, t *domain.Training) error {
	executor := db.GetExecutor(ctx, r.db)

	for i := range t.Skills {
		if err := r.resolveSkill(ctx, &t.Skills[i]); err != nil {
			return err
		}
		_, err := executor.ExecContext(ctx,
			"INSERT OR IGNORE INTO training_skills (training_id, skill_id) VALUES (?, ?)",
			t.ID,
			t.Skills[i].ID,
		)
		if err != nil {
			return fmt.Errorf("failed to link skill %d to training %d: %w", t.Skills[i].ID, t.ID, err)
		}
	}

	return nil
}

// resolveSkill fills in whichever of ID and title is missing.
func (r *SQLiteTrainingRepository) resolveSkill(ctx context.Context, s *domain.Skill) error {
	executor := db.GetExecutor(ctx, r.db)

	if s.ID != 0 {
		err := executor.QueryRowContext(ctx, "SELECT title FROM skills WHERE id = ?", s.ID).Scan(&s.Title)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("skill %d does not exist", s.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get skill %d: %w", s.ID, err)
		}
		return nil
	}

	if s.Title == "" {
		return fmt.Errorf("skill needs an id or a title")
	}

	if _, err := executor.ExecContext(ctx, "INSERT INTO skills (title) VALUES (?) ON CONFLICT(title) DO NOTHING", s.Title); err != nil {
		return fmt.Errorf("failed to create skill %q: %w", s.Title, err)
	}
	if err := executor.QueryRowContext(ctx, "SELECT id FROM skills WHERE title = ?", s.Title).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to get skill %q: %w", s.Title, err)
	}

	return nil
}

const getTrainingQuery = `SELECT ` + trainingColumns + ` FROM trainings WHERE id = ?`

// GetTraining retrieves a training and its skills
func (r *SQLiteTrainingRepository) GetTraining(ctx context.Context, id int64) (*domain.Training, error) {
	var training *domain.Training

	err := db.RunReadOnly(ctx, r.db, func(txCtx context.Context) error {
		var row trainingRow
		err := row.scan(db.GetExecutor(txCtx, r.db).QueryRowContext(txCtx, getTrainingQuery, id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get training %d: %w", id, err)
		}

		skills, err := r.skillsOf(txCtx, []int64{id})
		if err != nil {
			return err
		}

		training = row.toDomain()
		training.Skills = skills[id]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return training, nil
}

// ListTrainings returns one page of trainings without their skills
func (r *SQLiteTrainingRepository) ListTrainings(ctx context.Context, pageable domain.Pageable) (*domain.Page[domain.Training], error) {
	return r.listTrainings(ctx, pageable, false)
}

// ListTrainingsWithSkills returns one page of trainings with their skills loaded
func (r *SQLiteTrainingRepository) ListTrainingsWithSkills(ctx context.Context, pageable domain.Pageable) (*domain.Page[domain.Training], error) {
	return r.listTrainings(ctx, pageable, true)
}

func (r *SQLiteTrainingRepository) listTrainings(ctx context.Context, pageable domain.Pageable, withSkills bool) (*domain.Page[domain.Training], error) {
	order, err := orderBy(pageable.Sort, trainingSortColumns)
	if err != nil {
		return nil, err
	}

	var page *domain.Page[domain.Training]

	err = db.RunReadOnly(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var total int64
		if err := executor.QueryRowContext(txCtx, "SELECT COUNT(*) FROM trainings").Scan(&total); err != nil {
			return fmt.Errorf("failed to count trainings: %w", err)
		}

		trainings, err := r.queryTrainings(txCtx,
			"SELECT "+trainingColumns+" FROM trainings"+order+" LIMIT ? OFFSET ?",
			pageable.Size, pageable.Offset(),
		)
		if err != nil {
			return err
		}

		if withSkills && len(trainings) > 0 {
			ids := make([]int64, len(trainings))
			for i, t := range trainings {
				ids[i] = t.ID
			}
			skills, err := r.skillsOf(txCtx, ids)
			if err != nil {
				return err
			}
			for i := range trainings {
				trainings[i].Skills = skills[trainings[i].ID]
				if trainings[i].Skills == nil {
					trainings[i].Skills = make([]domain.Skill, 0)
				}
			}
		}

		page = domain.NewPage(trainings, total, pageable)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (r *SQLiteTrainingRepository) queryTrainings(ctx context.Context, query string, args ...any) ([]domain.Training, error) {
	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	defer rows.Close()

	trainings := make([]domain.Training, 0)
	for rows.Next() {
		var row trainingRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan training row: %w", err)
		}
		trainings = append(trainings, *row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training rows: %w", err)
	}

	return trainings, nil
}

// skillsOf loads the skills of the given trainings, keyed by training ID and ordered by title.
func (r *SQLiteTrainingRepository) skillsOf(ctx context.Context, trainingIDs []int64) (map[int64][]domain.Skill, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(trainingIDs)), ", ")
	args := make([]any, len(trainingIDs))
	for i, id := range trainingIDs {
		args[i] = id
	}

	query := `
		SELECT ts.training_id, s.id, s.title
		FROM training_skills ts
		JOIN skills s ON s.id = ts.skill_id
		WHERE ts.training_id IN (` + placeholders + `)
		ORDER BY s.title, s.id
	`

	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	skills := make(map[int64][]domain.Skill, len(trainingIDs))
	for rows.Next() {
		var trainingID int64
		var s domain.Skill
		if err := rows.Scan(&trainingID, &s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills[trainingID] = append(skills[trainingID], s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}

	return skills, nil
}

// DeleteTraining removes a training; its skill links go with it
func (r *SQLiteTrainingRepository) DeleteTraining(ctx context.Context, id int64) error {
	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, "DELETE FROM trainings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete training %d: %w", id, err)
	}

	return nil
}

// trainingRow is a private struct used to scan database rows
type trainingRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Contact     sql.NullString `db:"contact"`
	Link        sql.NullString `db:"link"`
	ValidUntil  sql.NullTime   `db:"valid_until"`
	IsOfficial  bool           `db:"is_official"`
	SuggestedBy sql.NullString `db:"suggested_by"`
}

func (tr *trainingRow) scan(s rowScanner) error {
	return s.Scan(
		&tr.ID,
		&tr.Title,
		&tr.Description,
		&tr.Contact,
		&tr.Link,
		&tr.ValidUntil,
		&tr.IsOfficial,
		&tr.SuggestedBy,
	)
}

func (tr *trainingRow) toDomain() *domain.Training {
	t := &domain.Training{
		ID:          tr.ID,
		Title:       tr.Title,
		Description: tr.Description.String,
		Contact:     tr.Contact.String,
		Link:        tr.Link.String,
		IsOfficial:  tr.IsOfficial,
		SuggestedBy: tr.SuggestedBy.String,
	}

	if tr.ValidUntil.Valid {
		t.ValidUntil = tr.ValidUntil.Time
	}

	return t
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
