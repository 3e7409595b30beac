package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/your-org/conversa/internal/config"
	"github.com/your-org/conversa/internal/match"
	"github.com/your-org/conversa/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the schema if it does not exist. Action items carry an
// explicit position column so reads preserve insertion order; there is no
// ON DELETE CASCADE — cascades are issued explicitly by the store.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS people (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			avatar_color TEXT NOT NULL DEFAULT 'bg-indigo-200',
			context TEXT NOT NULL,
			interests TEXT[] NOT NULL DEFAULT '{}',
			open_follow_ups TEXT[] NOT NULL DEFAULT '{}',
			physical_description TEXT NOT NULL DEFAULT '',
			face_embedding vector,
			thumbnail_key TEXT NOT NULL DEFAULT '',
			last_met TEXT NOT NULL DEFAULT '',
			met_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL REFERENCES people(id),
			participants TEXT[] NOT NULL DEFAULT '{}',
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			location TEXT NOT NULL,
			summary TEXT NOT NULL,
			key_points TEXT[] NOT NULL DEFAULT '{}',
			full_transcript TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_person_id ON conversations (person_id)`,
		`CREATE TABLE IF NOT EXISTS action_items (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id),
			position INTEGER NOT NULL DEFAULT 0,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_action_items_conversation_id ON action_items (conversation_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// --- Persons ---

func (s *PostgresStore) CreatePerson(ctx context.Context, p *models.Person) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO people (id, name, role, avatar_color, context, interests, open_follow_ups, physical_description, face_embedding, thumbnail_key, last_met, met_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Role, p.AvatarColor, p.Context, p.Interests, p.OpenFollowUps,
		p.PhysicalDescription, embeddingArg(p.FaceEmbedding), p.ThumbnailKey, p.LastMet, p.MetCount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	p, err := scanPerson(s.pool.QueryRow(ctx, personSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPersons(ctx context.Context, offset, limit int) ([]models.Person, error) {
	rows, err := s.pool.Query(ctx,
		personSelect+` ORDER BY created_at, id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

func (s *PostgresStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	// met_count and last_met are deliberately excluded: those columns only
	// move inside RecordConversation's transaction.
	err := s.pool.QueryRow(ctx,
		`UPDATE people SET name = $2, role = $3, avatar_color = $4, context = $5,
		        interests = $6, open_follow_ups = $7, physical_description = $8,
		        face_embedding = $9, thumbnail_key = $10, updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		p.ID, p.Name, p.Role, p.AvatarColor, p.Context, p.Interests, p.OpenFollowUps,
		p.PhysicalDescription, embeddingArg(p.FaceEmbedding), p.ThumbnailKey,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeletePerson(ctx context.Context, id string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin delete person: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM action_items WHERE conversation_id IN (SELECT id FROM conversations WHERE person_id = $1)`, id); err != nil {
		return false, fmt.Errorf("delete person action items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM conversations WHERE person_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete person conversations: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete person: %w", err)
	}
	return true, nil
}

// --- Conversations ---

func (s *PostgresStore) RecordConversation(ctx context.Context, conv *models.Conversation, lastMet string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin record conversation: %w", err)
	}
	defer tx.Rollback(ctx)

	// The counter update runs first: it locks the person row (serializing
	// concurrent recordings) and doubles as the existence check.
	tag, err := tx.Exec(ctx,
		`UPDATE people SET met_count = met_count + 1, last_met = $2, updated_at = now() WHERE id = $1`,
		conv.PersonID, lastMet)
	if err != nil {
		return false, fmt.Errorf("update meeting counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO conversations (id, person_id, participants, title, date, location, summary, key_points, full_transcript)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`,
		conv.ID, conv.PersonID, conv.Participants, conv.Title, conv.Date,
		conv.Location, conv.Summary, conv.KeyPoints, conv.FullTranscript,
	).Scan(&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert conversation: %w", err)
	}

	for i := range conv.ActionItems {
		item := &conv.ActionItems[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO action_items (id, conversation_id, position, text, completed)
			 VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`,
			item.ID, item.ConversationID, i, item.Text, item.Completed,
		).Scan(&item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return false, fmt.Errorf("insert action item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit record conversation: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := scanConversation(s.pool.QueryRow(ctx, conversationSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	items, err := s.listItems(ctx, []string{conv.ID})
	if err != nil {
		return nil, err
	}
	conv.ActionItems = items[conv.ID]
	return conv, nil
}

func (s *PostgresStore) ListConversations(ctx context.Context, personID string, offset, limit int) ([]models.Conversation, error) {
	query := conversationSelect
	args := []interface{}{offset, limit}
	if personID != "" {
		query += ` WHERE person_id = $3`
		args = append(args, personID)
	}
	query += ` ORDER BY created_at DESC, id OFFSET $1 LIMIT $2`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	var ids []string
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, *conv)
		ids = append(ids, conv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		convs[i].ActionItems = items[convs[i].ID]
	}
	return convs, nil
}

func (s *PostgresStore) UpdateConversation(ctx context.Context, conv *models.Conversation) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE conversations SET person_id = $2, participants = $3, title = $4, date = $5,
		        location = $6, summary = $7, key_points = $8, full_transcript = $9, updated_at = now()
		 WHERE id = $1 RETURNING updated_at`,
		conv.ID, conv.PersonID, conv.Participants, conv.Title, conv.Date,
		conv.Location, conv.Summary, conv.KeyPoints, conv.FullTranscript,
	).Scan(&conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteConversation(ctx context.Context, id string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin delete conversation: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM action_items WHERE conversation_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete conversation action items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete conversation: %w", err)
	}
	return true, nil
}

// --- Action items ---

func (s *PostgresStore) GetActionItem(ctx context.Context, conversationID, itemID string) (*models.ActionItem, error) {
	item := &models.ActionItem{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, conversation_id, text, completed, created_at, updated_at
		 FROM action_items WHERE id = $1 AND conversation_id = $2`, itemID, conversationID,
	).Scan(&item.ID, &item.ConversationID, &item.Text, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get action item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateActionItem(ctx context.Context, item *models.ActionItem) (bool, error) {
	err := s.pool.QueryRow(ctx,
		`UPDATE action_items SET text = $3, completed = $4, updated_at = now()
		 WHERE id = $1 AND conversation_id = $2 RETURNING updated_at`,
		item.ID, item.ConversationID, item.Text, item.Completed,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("update action item: %w", err)
	}
	return true, nil
}

// --- Match candidates ---

func (s *PostgresStore) ListCandidates(ctx context.Context) ([]match.Candidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, face_embedding FROM people WHERE face_embedding IS NOT NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []match.Candidate
	for rows.Next() {
		var c match.Candidate
		var vec pgvector.Vector
		if err := rows.Scan(&c.PersonID, &c.Name, &vec); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Vector = vec.Slice()
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// --- helpers ---

const personSelect = `SELECT id, name, role, avatar_color, context, interests, open_follow_ups,
	physical_description, face_embedding, thumbnail_key, last_met, met_count, created_at, updated_at FROM people`

const conversationSelect = `SELECT id, person_id, participants, title, date, location, summary,
	key_points, full_transcript, created_at, updated_at FROM conversations`

func scanPerson(row pgx.Row) (*models.Person, error) {
	p := &models.Person{}
	var vec *pgvector.Vector
	err := row.Scan(&p.ID, &p.Name, &p.Role, &p.AvatarColor, &p.Context, &p.Interests,
		&p.OpenFollowUps, &p.PhysicalDescription, &vec, &p.ThumbnailKey,
		&p.LastMet, &p.MetCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if vec != nil {
		p.FaceEmbedding = vec.Slice()
	}
	return p, nil
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := row.Scan(&conv.ID, &conv.PersonID, &conv.Participants, &conv.Title, &conv.Date,
		&conv.Location, &conv.Summary, &conv.KeyPoints, &conv.FullTranscript,
		&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *PostgresStore) listItems(ctx context.Context, conversationIDs []string) (map[string][]models.ActionItem, error) {
	byConv := make(map[string][]models.ActionItem, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return byConv, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, text, completed, created_at, updated_at
		 FROM action_items WHERE conversation_id = ANY($1) ORDER BY conversation_id, position`,
		conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ActionItem
		if err := rows.Scan(&item.ID, &item.ConversationID, &item.Text, &item.Completed,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		byConv[item.ConversationID] = append(byConv[item.ConversationID], item)
	}
	return byConv, rows.Err()
}

func embeddingArg(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}
