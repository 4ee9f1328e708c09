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
	"time"

	"github.com/google/uuid"
)

func (db *DB) AddDirectMessage(msg *DirectMessage) (string, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO direct_messages (
			id, created_at, comment_id, media_id, post_url,
			recipient_id, recipient_username, comment_text, keyword, message_text,
			status, platform_message_id, failure_reason, comment_reply_status
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		msg.ID,
		msg.CreatedAt.Unix(),
		msg.CommentID,
		msg.MediaID,
		msg.PostURL,
		msg.RecipientID,
		msg.RecipientUsername,
		msg.CommentText,
		msg.Keyword,
		msg.MessageText,
		msg.Status,
		msg.PlatformMessageID,
		msg.FailureReason,
		msg.CommentReply,
	)
	if err != nil {
		return "", err
	}

	return msg.ID, nil
}

// GetRecentDirectMessages возвращает последние записи, новые первыми
func (db *DB) GetRecentDirectMessages(limit int) ([]DirectMessage, error) {
	rows, err := db.Query(`
		SELECT id, created_at, comment_id, media_id, post_url,
			recipient_id, recipient_username, comment_text, keyword, message_text,
			status, platform_message_id, failure_reason, comment_reply_status
		FROM direct_messages
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []DirectMessage
	for rows.Next() {
		var msg DirectMessage
		var createdAt int64
		err := rows.Scan(
			&msg.ID,
			&createdAt,
			&msg.CommentID,
			&msg.MediaID,
			&msg.PostURL,
			&msg.RecipientID,
			&msg.RecipientUsername,
			&msg.CommentText,
			&msg.Keyword,
			&msg.MessageText,
			&msg.Status,
			&msg.PlatformMessageID,
			&msg.FailureReason,
			&msg.CommentReply,
		)
		if err != nil {
			return nil, err
		}

		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *DB) GetStats() (*Stats, error) {
	var stats Stats
	var lastAt sql.NullInt64

	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN comment_reply_status = ? THEN 1 ELSE 0 END), 0),
			MAX(created_at)
		FROM direct_messages
	`, StatusSent, StatusFailed, ReplySent).Scan(
		&stats.Total,
		&stats.Sent,
		&stats.Failed,
		&stats.Replies,
		&lastAt,
	)
	if err != nil {
		return nil, err
	}

	if lastAt.Valid {
		stats.LastAt = time.Unix(lastAt.Int64, 0)
	}

	rows, err := db.Query(`
		SELECT keyword,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)
		FROM direct_messages
		GROUP BY keyword
		ORDER BY COUNT(*) DESC, keyword
	`, StatusSent, StatusFailed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ks KeywordStats
		if err := rows.Scan(&ks.Keyword, &ks.Sent, &ks.Failed); err != nil {
			return nil, err
		}
		stats.ByKeyword = append(stats.ByKeyword, ks)
	}

	return &stats, rows.Err()
}
