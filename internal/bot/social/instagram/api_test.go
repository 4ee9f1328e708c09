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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient("secret-token", "17841400000", server.URL, 5*time.Second)
}

func TestListRecentMedia(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/17841400000/media", r.URL.Path)
		assert.Equal(t, mediaFields, r.URL.Query().Get("fields"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret-token", r.URL.Query().Get("access_token"))

		w.Write([]byte(`{"data":[
			{"id":"m1","caption":"new drop","media_type":"IMAGE","permalink":"https://instagram.com/p/m1","timestamp":"2025-03-01T10:00:00+0000"},
			{"id":"m2","media_type":"VIDEO"}
		]}`))
	})

	media, err := client.ListRecentMedia(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, "m1", media[0].ID)
	assert.Equal(t, "new drop", media[0].Caption)
	assert.Equal(t, "https://instagram.com/p/m1", media[0].Permalink)
	assert.Equal(t, "VIDEO", media[1].MediaType)
}

func TestListRecentMedia_NoDataField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"paging":{}}`))
	})

	media, err := client.ListRecentMedia(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, media)
	assert.Empty(t, media)
}

func TestListComments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/m1/comments", r.URL.Path)
		assert.Equal(t, commentFields, r.URL.Query().Get("fields"))

		w.Write([]byte(`{"data":[
			{"id":"c1","text":"what's the price?","username":"alice","timestamp":"2025-03-01T10:05:00+0000","from":{"id":"u1","username":"alice"}}
		]}`))
	})

	comments, err := client.ListComments(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "u1", comments[0].AuthorID())
	assert.Equal(t, "alice", comments[0].AuthorName())

	ts, err := comments[0].Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC), ts.UTC())
}

func TestListComments_RemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	})

	_, err := client.ListComments(context.Background(), "m1")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.False(t, IsAuthError(err))
}

func TestSendDirectMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body messageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body.Recipient.ID)
		assert.Equal(t, "hello alice", body.Message.Text)
		assert.Equal(t, "secret-token", body.AccessToken)

		w.Write([]byte(`{"recipient_id":"u1","message_id":"mid.1"}`))
	})

	receipt, err := client.SendDirectMessage(context.Background(), "u1", "hello alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", receipt.RecipientID)
	assert.Equal(t, "mid.1", receipt.MessageID)
}

func TestSendDirectMessage_AuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`))
	})

	_, err := client.SendDirectMessage(context.Background(), "u1", "hi")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 190, remoteErr.Code)
	assert.Equal(t, "OAuthException", remoteErr.Type)
	assert.Contains(t, err.Error(), "Error validating access token")
	assert.True(t, IsAuthError(err))
}

func TestReplyToComment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/c1/replies", r.URL.Path)
		assert.Equal(t, "check your DMs", r.URL.Query().Get("message"))

		w.Write([]byte(`{"id":"c1_reply"}`))
	})

	receipt, err := client.ReplyToComment(context.Background(), "c1", "check your DMs")
	require.NoError(t, err)
	assert.Equal(t, "c1_reply", receipt.ID)
}

func TestTransportErrorHidesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("secret-token", "17841400000", server.URL, time.Second)
	_, err := client.ListRecentMedia(context.Background(), 10)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.NotContains(t, err.Error(), "secret-token")
	assert.False(t, IsAuthError(err))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(&RemoteError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsAuthError(&RemoteError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsAuthError(&RemoteError{StatusCode: http.StatusTooManyRequests, Code: 4}))
	assert.False(t, IsAuthError(errors.New("boom")))
}
