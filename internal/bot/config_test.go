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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, conf.Validate())
	assert.Equal(t, 5*time.Minute, conf.CheckInterval())

	opts := conf.MonitorOptions()
	assert.Equal(t, 10, opts.MediaLimit)
	assert.Equal(t, time.Minute, opts.Backoff)
	assert.Contains(t, opts.DMTemplate, "{username}")
}

func TestValidate(t *testing.T) {
	conf := DefaultConfig()
	conf.Instagram.AccessToken = ""
	conf.Monitoring.Keywords = []string{"price", "  "}
	conf.Monitoring.CheckIntervalSecs = 0
	conf.Telegram.Enabled = true
	conf.Telegram.ApiToken = ""

	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token")
	assert.Contains(t, err.Error(), "№2")
	assert.Contains(t, err.Error(), "check_interval_secs")
	assert.Contains(t, err.Error(), "api_token")
}

func TestValidate_NoKeywords(t *testing.T) {
	conf := DefaultConfig()
	conf.Monitoring.Keywords = nil

	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ключевых слов")
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	conf := DefaultConfig()
	conf.Monitoring.Keywords = []string{"menu"}
	conf.Monitoring.KeywordTemplates = map[string]string{"menu": "Menu for {username}"}
	require.NoError(t, conf.Save(path))
	assert.Equal(t, path, CONFIG_PATH)

	loaded, err := ConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"menu"}, loaded.Monitoring.Keywords)
	assert.Equal(t, "Menu for {username}", loaded.Monitoring.KeywordTemplates["menu"])
	assert.Equal(t, conf.Instagram.AccountID, loaded.Instagram.AccountID)

	loaded.Telegram.Public = true
	require.NoError(t, loaded.Update())

	reloaded, err := ConfigFrom(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Telegram.Public)
}

func TestConfigFrom_Missing(t *testing.T) {
	_, err := ConfigFrom(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("IGDM_ACCESS_TOKEN", "env-token")
	t.Setenv("IGDM_KEYWORDS", "menu,hours")
	t.Setenv("IGDM_CHECK_INTERVAL_SECS", "60")
	t.Setenv("IGDM_TELEGRAM_ALLOWED_USERS", "1,2")

	conf := DefaultConfig()
	accountID := conf.Instagram.AccountID
	require.NoError(t, conf.ApplyEnv())

	assert.Equal(t, "env-token", conf.Instagram.AccessToken)
	assert.Equal(t, []string{"menu", "hours"}, conf.Monitoring.Keywords)
	assert.Equal(t, time.Minute, conf.CheckInterval())
	assert.Equal(t, []int64{1, 2}, conf.Telegram.AllowedUserIDs)

	// Не заданные переменные не трогают значения из файла
	assert.Equal(t, accountID, conf.Instagram.AccountID)
	assert.Equal(t, "DB.sqlite3", conf.DB.File)
}
