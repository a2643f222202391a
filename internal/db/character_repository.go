package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/character"
	"github.com/udisondev/magecombat/internal/model"
)

// ErrNameTaken is returned by Create when the name is already used.
var ErrNameTaken = errors.New("character name already taken")

// CharacterRecord описывает сохранённого персонажа.
// Хранятся только первичные атрибуты, опыт и уровень; сопротивления и
// производные атрибуты пересчитываются при загрузке через character.Restore.
type CharacterRecord struct {
	ID       int64
	Name     string
	Class    model.CharacterClass
	Progress character.Progress
}

// CharacterRepository управляет персонажами в БД.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository создаёт новый CharacterRepository.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const selectCharacter = `
	SELECT character_id, name, class, level, experience,
	       strength, intelligence, stamina, vigor
	FROM characters
`

// LoadByID загружает персонажа по ID.
// Возвращает nil если персонаж не найден (не ошибка).
func (r *CharacterRepository) LoadByID(ctx context.Context, characterID int64) (*CharacterRecord, error) {
	rec, err := scanCharacter(r.db.QueryRow(ctx, selectCharacter+`WHERE character_id = $1`, characterID))
	if err != nil {
		return nil, fmt.Errorf("loading character %d: %w", characterID, err)
	}
	return rec, nil
}

// LoadByName загружает персонажа по имени без учёта регистра.
// Возвращает nil если персонаж не найден.
func (r *CharacterRepository) LoadByName(ctx context.Context, name string) (*CharacterRecord, error) {
	rec, err := scanCharacter(r.db.QueryRow(ctx, selectCharacter+`WHERE LOWER(name) = LOWER($1)`, name))
	if err != nil {
		return nil, fmt.Errorf("loading character %q: %w", name, err)
	}
	return rec, nil
}

// Create сохраняет нового персонажа и возвращает его ID.
func (r *CharacterRepository) Create(ctx context.Context, name string, class model.CharacterClass, p character.Progress) (int64, error) {
	query := `
		INSERT INTO characters (
			name, class, level, experience,
			strength, intelligence, stamina, vigor
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING character_id
	`

	d := p.Primaries
	var id int64
	err := r.db.QueryRow(ctx, query,
		name, int16(class), p.Level, p.Exp,
		d.Strength, d.Intelligence, d.Stamina, d.Vigor,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("creating character %q: %w", name, ErrNameTaken)
		}
		return 0, fmt.Errorf("creating character %q: %w", name, err)
	}
	return id, nil
}

// Save сохраняет прогресс персонажа.
func (r *CharacterRepository) Save(ctx context.Context, characterID int64, p character.Progress) error {
	query := `
		UPDATE characters
		SET level = $2, experience = $3,
		    strength = $4, intelligence = $5, stamina = $6, vigor = $7,
		    updated_at = now()
		WHERE character_id = $1
	`

	d := p.Primaries
	tag, err := r.db.Exec(ctx, query,
		characterID, p.Level, p.Exp,
		d.Strength, d.Intelligence, d.Stamina, d.Vigor,
	)
	if err != nil {
		return fmt.Errorf("saving character %d: %w", characterID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving character %d: %w", characterID, pgx.ErrNoRows)
	}
	return nil
}

// NameExists checks if a character name already exists (case-insensitive).
func (r *CharacterRepository) NameExists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM characters WHERE LOWER(name) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking name existence %q: %w", name, err)
	}
	return exists, nil
}

// Delete удаляет персонажа.
func (r *CharacterRepository) Delete(ctx context.Context, characterID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM characters WHERE character_id = $1`, characterID); err != nil {
		return fmt.Errorf("deleting character %d: %w", characterID, err)
	}
	return nil
}

func scanCharacter(row pgx.Row) (*CharacterRecord, error) {
	var (
		rec   CharacterRecord
		class int16
		d     attribute.PrimaryValues
	)
	err := row.Scan(
		&rec.ID, &rec.Name, &class, &rec.Progress.Level, &rec.Progress.Exp,
		&d.Strength, &d.Intelligence, &d.Stamina, &d.Vigor,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Class = model.CharacterClass(class)
	rec.Progress.Primaries = d
	return &rec, nil
}
