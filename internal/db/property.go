package db

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"livimmo-live/internal/models"
)

// ReplaceProperties swaps the stored property snapshot for a new feed.
// The feed is read-only within the service, so ingestion always replaces
// the whole set.
func (d *DB) ReplaceProperties(props []models.PropertySummary) error {
	return d.WithLock(func() error {
		tx, err := d.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM properties`); err != nil {
			return err
		}

		for _, p := range props {
			var images any
			if len(p.Images) > 0 {
				data, err := json.Marshal(p.Images)
				if err != nil {
					return err
				}
				images = string(data)
			}

			var liveDate any
			if !p.LiveDate.IsZero() {
				liveDate = p.LiveDate
			}

			_, err := tx.Exec(
				`INSERT INTO properties
				(id, title, location, type, surface, rooms, price, images, lat, lng,
				 is_live_now, live_date, has_live,
				 agent_id, agent_name, agent_company, agent_image, agent_verified)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Title, p.Location, p.Type, p.Surface, p.Rooms, p.Price, images,
				p.Coordinates.Lat, p.Coordinates.Lng,
				p.IsLiveNow, liveDate, p.HasLive,
				p.Agent.ID, p.Agent.Name, p.Agent.Company, p.Agent.ImageURL, p.Agent.Verified,
			)
			if err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		log.Printf("[DB] Property feed replaced count=%d", len(props))
		return nil
	})
}

// GetAllProperties retrieves the stored property snapshot in id order
func (d *DB) GetAllProperties() ([]models.PropertySummary, error) {
	return WithLockResult(d, func() ([]models.PropertySummary, error) {
		rows, err := d.db.Query(
			`SELECT id, title, location, type, surface, rooms, price, images, lat, lng,
			 is_live_now, live_date, has_live,
			 agent_id, agent_name, agent_company, agent_image, agent_verified
			FROM properties ORDER BY id ASC`,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var props []models.PropertySummary
		for rows.Next() {
			var p models.PropertySummary
			var location, ptype, images, agentName, agentCompany, agentImage sql.NullString
			var surface, rooms sql.NullInt64
			var liveDate sql.NullTime
			var agentID sql.NullInt64
			if err := rows.Scan(
				&p.ID, &p.Title, &location, &ptype, &surface, &rooms, &p.Price, &images,
				&p.Coordinates.Lat, &p.Coordinates.Lng,
				&p.IsLiveNow, &liveDate, &p.HasLive,
				&agentID, &agentName, &agentCompany, &agentImage, &p.Agent.Verified,
			); err != nil {
				return nil, err
			}
			p.Location = location.String
			p.Type = ptype.String
			p.Surface = int(surface.Int64)
			p.Rooms = int(rooms.Int64)
			if liveDate.Valid {
				p.LiveDate = liveDate.Time
			}
			if images.Valid && images.String != "" {
				if err := json.Unmarshal([]byte(images.String), &p.Images); err != nil {
					log.Printf("[DB] Skipping malformed images property_id=%d err=%v", p.ID, err)
				}
			}
			p.Agent.ID = agentID.Int64
			p.Agent.Name = agentName.String
			p.Agent.Company = agentCompany.String
			p.Agent.ImageURL = agentImage.String
			props = append(props, p)
		}
		return props, rows.Err()
	})
}

// ReplaceLives swaps the stored live feed for a new snapshot
func (d *DB) ReplaceLives(lives []models.LiveItem) error {
	return d.WithLock(func() error {
		tx, err := d.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM lives`); err != nil {
			return err
		}
		for _, l := range lives {
			if _, err := tx.Exec(
				`INSERT INTO lives (id, title, thumbnail_url) VALUES (?, ?, ?)`,
				l.ID, l.Title, l.ThumbnailURL,
			); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		log.Printf("[DB] Live feed replaced count=%d", len(lives))
		return nil
	})
}

// GetAllLives retrieves the stored live feed in id order
func (d *DB) GetAllLives() ([]models.LiveItem, error) {
	return WithLockResult(d, func() ([]models.LiveItem, error) {
		rows, err := d.db.Query(`SELECT id, title, thumbnail_url FROM lives ORDER BY id ASC`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var lives []models.LiveItem
		for rows.Next() {
			var l models.LiveItem
			var thumbnail sql.NullString
			if err := rows.Scan(&l.ID, &l.Title, &thumbnail); err != nil {
				return nil, err
			}
			l.ThumbnailURL = thumbnail.String
			lives = append(lives, l)
		}
		return lives, rows.Err()
	})
}

// CreateScheduledLive inserts a scheduled live
func (d *DB) CreateScheduledLive(live models.ScheduledLive) error {
	return d.WithLock(func() error {
		_, err := d.db.Exec(
			`INSERT INTO scheduled_lives (id, title, date, channel, viewers) VALUES (?, ?, ?, ?, ?)`,
			live.ID, live.Title, live.Date, string(live.Channel), live.Viewers,
		)
		return err
	})
}

// GetScheduledLives retrieves all scheduled lives in date order
func (d *DB) GetScheduledLives() ([]models.ScheduledLive, error) {
	return WithLockResult(d, func() ([]models.ScheduledLive, error) {
		rows, err := d.db.Query(
			`SELECT id, title, date, channel, viewers FROM scheduled_lives ORDER BY date ASC`,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var lives []models.ScheduledLive
		for rows.Next() {
			var l models.ScheduledLive
			var channel string
			if err := rows.Scan(&l.ID, &l.Title, &l.Date, &channel, &l.Viewers); err != nil {
				return nil, err
			}
			l.Channel = models.Channel(channel)
			lives = append(lives, l)
		}
		return lives, rows.Err()
	})
}

// UpdateScheduledLive updates the mutable fields of a scheduled live
func (d *DB) UpdateScheduledLive(id string, title string, date time.Time, channel models.Channel) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(
			`UPDATE scheduled_lives SET title = ?, date = ?, channel = ? WHERE id = ?`,
			title, date, string(channel), id,
		)
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

// DeleteScheduledLive removes a scheduled live
func (d *DB) DeleteScheduledLive(id string) error {
	return d.WithLock(func() error {
		result, err := d.db.Exec(`DELETE FROM scheduled_lives WHERE id = ?`, id)
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
