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

import "time"

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	ReplyNone   = ""
	ReplySent   = "sent"
	ReplyFailed = "failed"
)

// Запись об отправленном (или не отправленном) личном сообщении
type DirectMessage struct {
	ID                string    `db:"id"`
	CreatedAt         time.Time `db:"created_at"`
	CommentID         string    `db:"comment_id"` // ID комментария в Instagram
	MediaID           string    `db:"media_id"`
	PostURL           string    `db:"post_url"`
	RecipientID       string    `db:"recipient_id"`
	RecipientUsername string    `db:"recipient_username"`
	CommentText       string    `db:"comment_text"`
	Keyword           string    `db:"keyword"` // Сработавшее ключевое слово
	MessageText       string    `db:"message_text"`
	Status            string    `db:"status"` // "sent", "failed"
	PlatformMessageID string    `db:"platform_message_id"`
	FailureReason     string    `db:"failure_reason"`
	CommentReply      string    `db:"comment_reply_status"` // "", "sent", "failed"
}

// Статистика по одному ключевому слову
type KeywordStats struct {
	Keyword string
	Sent    int
	Failed  int
}

type Stats struct {
	Total     int
	Sent      int
	Failed    int
	Replies   int
	LastAt    time.Time
	ByKeyword []KeywordStats
}
