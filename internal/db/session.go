package db

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"livimmo-live/internal/models"
)

// CreateSession creates a new chat session
func (d *DB) CreateSession(title string, propertyID *int64) (*models.Session, error) {
	return WithLockResult(d, func() (*models.Session, error) {
		result, err := d.db.Exec(
			`INSERT INTO sessions (title, property_id) VALUES (?, ?)`,
			title, propertyID,
		)
		if err != nil {
			return nil, err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}

		return &models.Session{
			ID:         id,
			Title:      title,
			PropertyID: propertyID,
			CreatedAt:  time.Now(),
		}, nil
	})
}

// GetSession retrieves a session by ID
func (d *DB) GetSession(id int64) (*models.Session, error) {
	return WithLockResult(d, func() (*models.Session, error) {
		row := d.db.QueryRow(
			`SELECT id, title, property_id, created_at FROM sessions WHERE id = ?`,
			id,
		)

		var sess models.Session
		var propertyID sql.NullInt64
		if err := row.Scan(&sess.ID, &sess.Title, &propertyID, &sess.CreatedAt); err != nil {
			return nil, err
		}
		if propertyID.Valid {
			v := propertyID.Int64
			sess.PropertyID = &v
		}
		return &sess, nil
	})
}

// GetAllSessions retrieves all sessions, newest first
func (d *DB) GetAllSessions() ([]models.Session, error) {
	return WithLockResult(d, func() ([]models.Session, error) {
		rows, err := d.db.Query(
			`SELECT id, title, property_id, created_at FROM sessions ORDER BY created_at DESC`,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var sessions []models.Session
		for rows.Next() {
			var sess models.Session
			var propertyID sql.NullInt64
			if err := rows.Scan(&sess.ID, &sess.Title, &propertyID, &sess.CreatedAt); err != nil {
				return nil, err
			}
			if propertyID.Valid {
				v := propertyID.Int64
				sess.PropertyID = &v
			}
			sessions = append(sessions, sess)
		}
		return sessions, rows.Err()
	})
}

// DeleteSession deletes a session and its messages
func (d *DB) DeleteSession(id int64) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// SaveMessage persists one chat message. Follow-up prompts are stored as
// a JSON column so rehydrated logs keep their prompt lists.
func (d *DB) SaveMessage(msg models.ChatMessage) error {
	return d.WithLock(func() error {
		var followUps any
		if len(msg.FollowUps) > 0 {
			data, err := json.Marshal(msg.FollowUps)
			if err != nil {
				return err
			}
			followUps = string(data)
		}

		_, err := d.db.Exec(
			`INSERT INTO messages (id, session_id, author, content, scripted, follow_ups, sent_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.ID, msg.SessionID, string(msg.Author), msg.Text, msg.Scripted, followUps, msg.SentAt,
		)
		if err != nil {
			log.Printf("[DB] SaveMessage failed session_id=%d message_id=%s err=%v", msg.SessionID, msg.ID, err)
			return err
		}

		log.Printf("[DB] Message saved session_id=%d message_id=%s author=%s", msg.SessionID, msg.ID, msg.Author)
		return nil
	})
}

// GetMessages retrieves all messages of a session in id order; message
// ids are monotonic so this is append order
func (d *DB) GetMessages(sessionID int64) ([]models.ChatMessage, error) {
	return WithLockResult(d, func() ([]models.ChatMessage, error) {
		rows, err := d.db.Query(
			`SELECT id, session_id, author, content, scripted, follow_ups, sent_at
			FROM messages WHERE session_id = ? ORDER BY id ASC`,
			sessionID,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var messages []models.ChatMessage
		for rows.Next() {
			var msg models.ChatMessage
			var author string
			var followUps sql.NullString
			if err := rows.Scan(&msg.ID, &msg.SessionID, &author, &msg.Text, &msg.Scripted, &followUps, &msg.SentAt); err != nil {
				return nil, err
			}
			msg.Author = models.Author(author)
			if followUps.Valid && followUps.String != "" {
				if err := json.Unmarshal([]byte(followUps.String), &msg.FollowUps); err != nil {
					log.Printf("[DB] Skipping malformed follow_ups message_id=%s err=%v", msg.ID, err)
				}
			}
			messages = append(messages, msg)
		}
		return messages, rows.Err()
	})
}
