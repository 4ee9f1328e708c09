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
	"strings"
)

const DefaultDMTemplate = "Hey {username}! Thanks for your comment. Here's the info you requested..."

// MatchKeyword ищет ключевые слова в тексте без учета регистра.
// Побеждает первое по порядку списка слово, а не самое длинное.
func MatchKeyword(text string, keywords []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}

		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return keyword, true
		}
	}

	return "", false
}

// RenderMessage подставляет данные комментария в шаблон сообщения
func RenderMessage(template string, comment social.Comment, keyword string, media social.MediaItem) string {
	replacer := strings.NewReplacer(
		"{username}", comment.AuthorName(),
		"{keyword}", keyword,
		"{comment}", comment.Text,
		"{permalink}", media.Permalink,
	)

	return replacer.Replace(template)
}
