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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiVersion     = "v19.0"
	DefaultBaseURL = "https://graph.facebook.com/" + apiVersion

	// Graph API: недействительный или просроченный токен
	codeInvalidToken = 190
)

type Client struct {
	accessToken string
	accountID   string
	baseURL     string
	http        *http.Client
}

func NewClient(accessToken, accountID, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		accessToken: accessToken,
		accountID:   accountID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
	}
}

func (c *Client) AccountID() string {
	return c.accountID
}

// authorized добавляет токен к параметрам запроса
func (c *Client) authorized(params url.Values) url.Values {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.accessToken)
	return params
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	op := method + " " + path

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRemoteError(resp, raw)
	}

	return raw, nil
}

// RemoteError - неуспешный HTTP статус от Graph API
type RemoteError struct {
	StatusCode int
	Status     string
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("instagram API error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("instagram API error: %s", e.Status)
}

func newRemoteError(resp *http.Response, raw []byte) *RemoteError {
	var envelope struct {
		Error *RemoteError `json:"error"`
	}

	remoteErr := &RemoteError{}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		remoteErr = envelope.Error
	}
	remoteErr.StatusCode = resp.StatusCode
	remoteErr.Status = resp.Status

	return remoteErr
}

// TransportError - ошибка сети (соединение, таймаут, обрыв ответа)
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) *TransportError {
	// url.Error содержит полный URL вместе с access_token, в логи он попасть не должен
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &TransportError{Op: op, Err: err}
}

// AuthFailure сообщает, что ошибка вызвана неверным или просроченным токеном.
// Такие ошибки не исчезнут сами по себе, в отличие от сетевых.
func (e *RemoteError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden ||
		e.Code == codeInvalidToken
}

func IsAuthError(err error) bool {
	return social.IsAuthError(err)
}
