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

package monitor

import (
	"Unbewohnte/IGKEYWORDDMbot/internal/bot/social"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     string
		matched  bool
	}{
		{"first listed wins", "need price info", []string{"info", "price"}, "info", true},
		{"order matters", "need price info", []string{"price", "info"}, "price", true},
		{"case insensitive text", "WHAT'S THE PRICE?", []string{"price"}, "price", true},
		{"case insensitive keyword", "send me the link", []string{"LINK"}, "LINK", true},
		{"substring", "pricey", []string{"price"}, "price", true},
		{"no match", "nice pic", []string{"price", "info"}, "", false},
		{"empty keyword ignored", "nice pic", []string{"", "link"}, "", false},
		{"no keywords", "price", nil, "", false},
		{"cyrillic", "Сколько стоит ЦЕНА?", []string{"цена"}, "цена", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchKeyword(tt.text, tt.keywords)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMessage(t *testing.T) {
	comment := social.Comment{
		ID:       "c1",
		Text:     "price?",
		Username: "alice",
		From:     &social.CommentAuthor{ID: "u1"},
	}
	media := social.MediaItem{ID: "m1", Permalink: "https://instagram.com/p/m1"}

	got := RenderMessage("Hi {username}, '{keyword}' for {permalink} ({comment})", comment, "price", media)
	assert.Equal(t, "Hi alice, 'price' for https://instagram.com/p/m1 (price?)", got)

	got = RenderMessage(DefaultDMTemplate, comment, "price", media)
	assert.Equal(t, "Hey alice! Thanks for your comment. Here's the info you requested...", got)
}
