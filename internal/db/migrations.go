package db

// Migrate creates all tables and indexes
func (d *DB) Migrate() error {
	return d.WithLock(func() error {
		statements := []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				property_id INTEGER,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS messages (
				id TEXT PRIMARY KEY,
				session_id INTEGER NOT NULL,
				author TEXT NOT NULL CHECK(author IN ('user', 'bot')),
				content TEXT NOT NULL,
				scripted INTEGER NOT NULL DEFAULT 0,
				follow_ups TEXT,
				sent_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS properties (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				location TEXT,
				type TEXT,
				surface INTEGER,
				rooms INTEGER,
				price INTEGER NOT NULL,
				images TEXT,
				lat REAL NOT NULL,
				lng REAL NOT NULL,
				is_live_now INTEGER NOT NULL DEFAULT 0,
				live_date DATETIME,
				has_live INTEGER NOT NULL DEFAULT 0,
				agent_id INTEGER,
				agent_name TEXT,
				agent_company TEXT,
				agent_image TEXT,
				agent_verified INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS lives (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				thumbnail_url TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS scheduled_lives (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				date DATETIME NOT NULL,
				channel TEXT NOT NULL CHECK(channel IN ('youtube', 'facebook', 'instagram', 'whatsapp')),
				viewers INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id)`,
			`CREATE INDEX IF NOT EXISTS idx_scheduled_lives_date ON scheduled_lives(date)`,
		}

		for _, stmt := range statements {
			if _, err := d.db.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
