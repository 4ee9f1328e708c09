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

package bot

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandName(t *testing.T) {
	assert.Equal(t, "stats", commandName("/stats"))
	assert.Equal(t, "recent", commandName("/recent 5"))
	assert.Equal(t, "help", commandName("/help@igdm_bot stats"))
}

func TestMinDistance(t *testing.T) {
	assert.Equal(t, 0, minDistance("stats", "stats"))
	assert.Equal(t, 1, minDistance("stat", "stats"))
	assert.Equal(t, 3, minDistance("kitten", "sitting"))
}

func TestInitRegistersCommands(t *testing.T) {
	bot := newTestBot(t)

	for _, name := range []string{"help", "about", "conf", "keywords", "stats", "recent", "chatid", "setchatid", "togglepublic", "adduser", "rmuser"} {
		assert.NotNil(t, bot.CommandByName(name), name)
	}
	assert.Nil(t, bot.CommandByName("addgroup"))

	help := bot.constructHelpMessage()
	assert.Contains(t, help, "*[Мониторинг]*")
	assert.Contains(t, help, "/recent 5")
}

func TestFindSimilarCommands(t *testing.T) {
	bot := newTestBot(t)

	suggestions := bot.findSimilarCommands("stast")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "stats", suggestions[0])
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestParseID(t *testing.T) {
	id, err := parseID(&telego.Message{Text: "/adduser 5293210034"})
	require.NoError(t, err)
	assert.Equal(t, int64(5293210034), id)

	_, err = parseID(&telego.Message{Text: "/adduser"})
	assert.Error(t, err)

	_, err = parseID(&telego.Message{Text: "/adduser abc"})
	assert.Error(t, err)
}

func TestIsAllowed(t *testing.T) {
	bot := newTestBot(t)
	bot.conf.Telegram.AllowedUserIDs = []int64{42}

	assert.True(t, bot.isAllowed(42))
	assert.False(t, bot.isAllowed(7))

	bot.conf.Telegram.Public = true
	assert.True(t, bot.isAllowed(7))
}

func TestKeywordsMessage(t *testing.T) {
	bot := newTestBot(t)
	bot.conf.Monitoring.KeywordTemplates = map[string]string{"price": "Prices: {permalink}"}

	text := bot.constructKeywordsMessage()
	assert.Contains(t, text, "`price` (свой шаблон)")
	assert.Contains(t, text, "`info`\n")
}
