/*
   IGKEYWORDDMbot - Instagram comment keyword auto-DM bot
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS direct_messages (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		comment_id TEXT NOT NULL,
		media_id TEXT NOT NULL,
		post_url TEXT NOT NULL DEFAULT '',
		recipient_id TEXT NOT NULL DEFAULT '',
		recipient_username TEXT NOT NULL DEFAULT '',
		comment_text TEXT NOT NULL DEFAULT '',
		keyword TEXT NOT NULL,
		message_text TEXT NOT NULL,
		status TEXT NOT NULL,
		platform_message_id TEXT NOT NULL DEFAULT '',
		failure_reason TEXT NOT NULL DEFAULT '',
		comment_reply_status TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_direct_messages_created ON direct_messages(created_at);
	CREATE INDEX IF NOT EXISTS idx_direct_messages_keyword ON direct_messages(keyword);
	CREATE INDEX IF NOT EXISTS idx_direct_messages_status ON direct_messages(status);
`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}
