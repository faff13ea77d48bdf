package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type setRepository struct {
	db *sql.DB
}

// NewSetRepository creates a new SetRepository implementation
func NewSetRepository(db *sql.DB) repository.SetRepository {
	return &setRepository{db: db}
}

func (r *setRepository) Create(ctx context.Context, set models.FlashcardSet, cards []models.Card) (uuid.UUID, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")

	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	log.Debug("creating flashcard set: id=%s, cards=%d", set.ID, len(cards))

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO flashcard_sets (id, title, description, subject, difficulty, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, set.ID, set.Title, set.Description, set.Subject, set.Difficulty, set.CreatedAt); err != nil {
			return err
		}

		if len(cards) == 0 {
			return nil
		}
		insert := sqlBuilder.Insert("flashcards").Columns("set_id", "position", "front", "back")
		for i, c := range cards {
			insert = insert.Values(set.ID, i, c.Front, c.Back)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Error("failed to create flashcard set: %v", err)
		return uuid.Nil, err
	}
	log.Debug("flashcard set created: id=%s", set.ID)
	return set.ID, nil
}

func (r *setRepository) Get(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("getting flashcard set: id=%s", id)

	query, args, err := r.selectSets().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var s models.FlashcardSet
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Title, &s.Description, &s.Subject, &s.Difficulty, &s.CreatedAt, &s.CardCount)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard set not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard set: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *setRepository) List(ctx context.Context, filter models.SetFilter) ([]models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("listing flashcard sets: subject=%s, difficulty=%s, search=%s", filter.Subject, filter.Difficulty, filter.Search)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query, args, err := applySetFilter(r.selectSets(), filter).
		OrderBy("s.created_at DESC", "s.title ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcard sets: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sets []models.FlashcardSet
	for rows.Next() {
		var s models.FlashcardSet
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Subject, &s.Difficulty, &s.CreatedAt, &s.CardCount); err != nil {
			log.Error("failed to scan flashcard set row: %v", err)
			return nil, err
		}
		sets = append(sets, s)
	}
	log.Debug("found %d flashcard sets", len(sets))
	return sets, rows.Err()
}

func (r *setRepository) Count(ctx context.Context, filter models.SetFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")

	query, args, err := applySetFilter(sqlBuilder.Select("COUNT(*)").From("flashcard_sets s"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Error("failed to count flashcard sets: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *setRepository) Cards(ctx context.Context, setID uuid.UUID) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("fetching cards: set_id=%s", setID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, set_id, position, front, back
FROM flashcards
WHERE set_id = ?
ORDER BY position ASC, id ASC
`, setID)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.SetID, &c.Position, &c.Front, &c.Back); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *setRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("deleting flashcard set: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM flashcard_sets WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete flashcard set: %v", err)
	}
	return err
}

func (r *setRepository) selectSets() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"s.id", "s.title", "s.description", "s.subject", "s.difficulty", "s.created_at",
		"(SELECT COUNT(*) FROM flashcards f WHERE f.set_id = s.id) AS card_count",
	).From("flashcard_sets s")
}

func applySetFilter(query squirrel.SelectBuilder, filter models.SetFilter) squirrel.SelectBuilder {
	if filter.Subject != "" {
		query = query.Where(squirrel.Eq{"s.subject": filter.Subject})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"s.difficulty": filter.Difficulty})
	}
	if filter.Search != "" {
		query = query.Where(squirrel.Like{"s.title": "%" + filter.Search + "%"})
	}
	return query
}
