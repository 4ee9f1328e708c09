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

package social

import (
	"context"
	"errors"
	"time"
)

// Формат времени, в котором Graph API отдает timestamp
const GraphTimeLayout = "2006-01-02T15:04:05-0700"

type MediaItem struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
	Timestamp string `json:"timestamp"`
	Permalink string `json:"permalink"`
}

type CommentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Comment struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Username  string         `json:"username"`
	Timestamp string         `json:"timestamp"`
	From      *CommentAuthor `json:"from,omitempty"`
}

// AuthorID возвращает ID автора комментария (из поля from)
func (c Comment) AuthorID() string {
	if c.From == nil {
		return ""
	}
	return c.From.ID
}

// AuthorName возвращает отображаемое имя автора
func (c Comment) AuthorName() string {
	if c.Username != "" {
		return c.Username
	}
	if c.From != nil && c.From.Username != "" {
		return c.From.Username
	}
	return c.AuthorID()
}

func (c Comment) Time() (time.Time, error) {
	return time.Parse(GraphTimeLayout, c.Timestamp)
}

// Ответ платформы на отправку сообщения
type Receipt struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
	ID          string `json:"id"`
}

// Platform - то, что нужно мониторингу от социальной сети
type Platform interface {
	ListRecentMedia(ctx context.Context, limit int) ([]MediaItem, error)
	ListComments(ctx context.Context, mediaID string) ([]Comment, error)
	SendDirectMessage(ctx context.Context, recipientID, text string) (*Receipt, error)
}

// CommentReplier реализуют платформы, умеющие отвечать публично под комментарием
type CommentReplier interface {
	ReplyToComment(ctx context.Context, commentID, text string) (*Receipt, error)
}

// IsAuthError сообщает, что платформа отвергла учетные данные.
// Ошибки платформ помечают это методом AuthFailure.
func IsAuthError(err error) bool {
	var authErr interface{ AuthFailure() bool }
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.AuthFailure()
}
