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

package instagram

import (
	"Unbewohnte/IGKEYWORDDMbot/internal/bot/social"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	mediaFields   = "id,caption,media_type,media_url,timestamp,permalink"
	commentFields = "id,text,username,timestamp,from"
)

var (
	_ social.Platform       = (*Client)(nil)
	_ social.CommentReplier = (*Client)(nil)
)

// ListRecentMedia возвращает последние посты/рилсы аккаунта
func (c *Client) ListRecentMedia(ctx context.Context, limit int) ([]social.MediaItem, error) {
	params := url.Values{}
	params.Set("fields", mediaFields)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	response, err := c.call(ctx, http.MethodGet, "/"+url.PathEscape(c.accountID)+"/media", c.authorized(params), nil)
	if err != nil {
		return nil, err
	}

	media, err := decodeData[social.MediaItem](response)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal media: %w", err)
	}

	return media, nil
}

// ListComments возвращает комментарии под одним постом
func (c *Client) ListComments(ctx context.Context, mediaID string) ([]social.Comment, error) {
	params := url.Values{}
	params.Set("fields", commentFields)

	response, err := c.call(ctx, http.MethodGet, "/"+url.PathEscape(mediaID)+"/comments", c.authorized(params), nil)
	if err != nil {
		return nil, err
	}

	comments, err := decodeData[social.Comment](response)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}

	return comments, nil
}

type messageRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
	AccessToken string `json:"access_token"`
}

// SendDirectMessage отправляет личное сообщение.
// Повторный вызов отправит сообщение еще раз: следить за этим должен вызывающий.
func (c *Client) SendDirectMessage(ctx context.Context, recipientID, text string) (*social.Receipt, error) {
	var body messageRequest
	body.Recipient.ID = recipientID
	body.Message.Text = text
	body.AccessToken = c.accessToken

	response, err := c.call(ctx, http.MethodPost, "/me/messages", nil, body)
	if err != nil {
		return nil, err
	}

	var receipt social.Receipt
	if err := json.Unmarshal(response, &receipt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message receipt: %w", err)
	}

	return &receipt, nil
}

// ReplyToComment публикует ответ под комментарием
func (c *Client) ReplyToComment(ctx context.Context, commentID, text string) (*social.Receipt, error) {
	params := url.Values{}
	params.Set("message", text)

	response, err := c.call(ctx, http.MethodPost, "/"+url.PathEscape(commentID)+"/replies", c.authorized(params), nil)
	if err != nil {
		return nil, err
	}

	var receipt social.Receipt
	if err := json.Unmarshal(response, &receipt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reply receipt: %w", err)
	}

	return &receipt, nil
}

// decodeData достает массив data из ответа; отсутствие поля - пустой результат
func decodeData[T any](response json.RawMessage) ([]T, error) {
	var result struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(response, &result); err != nil {
		return nil, err
	}

	if result.Data == nil {
		return []T{}, nil
	}

	return result.Data, nil
}
