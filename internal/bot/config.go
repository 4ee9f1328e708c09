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
	"Unbewohnte/IGKEYWORDDMbot/internal/db"
	"Unbewohnte/IGKEYWORDDMbot/internal/monitor"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var CONFIG_PATH string = ""

type TelegramConf struct {
	Enabled             bool    `json:"enabled" env:"IGDM_TELEGRAM_ENABLED"`
	ApiToken            string  `json:"api_token" env:"IGDM_TELEGRAM_TOKEN"`
	Public              bool    `json:"is_public"`
	AllowedUserIDs      []int64 `json:"allowed_user_ids" env:"IGDM_TELEGRAM_ALLOWED_USERS" envSeparator:","`
	MonitoringChannelID int64   `json:"monitoring_channel_id" env:"IGDM_TELEGRAM_CHAT_ID"`
	MonitoringThreadID  int64   `json:"monitoring_thread_id" env:"IGDM_TELEGRAM_THREAD_ID"`
}

type DBConf struct {
	File string `json:"file" env:"IGDM_DB_FILE"`
	db   *db.DB
}

type InstagramConf struct {
	AccessToken        string `json:"access_token" env:"IGDM_ACCESS_TOKEN"`
	AccountID          string `json:"account_id" env:"IGDM_ACCOUNT_ID"`
	BaseURL            string `json:"base_url" env:"IGDM_BASE_URL"`
	RequestTimeoutSecs int    `json:"request_timeout_secs"`
}

type MonitoringConf struct {
	Keywords          []string `json:"keywords" env:"IGDM_KEYWORDS" envSeparator:","`
	CheckIntervalSecs int      `json:"check_interval_secs" env:"IGDM_CHECK_INTERVAL_SECS"`
	BackoffSecs       int      `json:"backoff_secs"`
	MediaLimit        int      `json:"media_limit"`

	DMTemplate       string            `json:"dm_template"`
	KeywordTemplates map[string]string `json:"keyword_templates"`

	ReplyInComments      bool   `json:"reply_in_comments"`
	CommentReplyTemplate string `json:"comment_reply_template"`

	// Ограничения на память о просмотренных комментариях. 0 - без ограничения
	SeenCapacity       int `json:"seen_capacity"`
	SeenRetentionHours int `json:"seen_retention_hours"`
}

type Config struct {
	Instagram  InstagramConf  `json:"instagram"`
	Monitoring MonitoringConf `json:"monitoring"`
	Telegram   TelegramConf   `json:"telegram"`
	DB         DBConf         `json:"database"`
	Debug      bool           `json:"debug" env:"IGDM_DEBUG"`
}

func (c *Config) OpenDB() (*db.DB, error) {
	var err error
	c.DB.db, err = db.NewDB(c.DB.File)
	if err != nil {
		return nil, err
	}

	return c.DB.db, nil
}

func (c *Config) GetDB() *db.DB {
	return c.DB.db
}

func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConf{
			AccessToken:        "your_instagram_access_token_here",
			AccountID:          "your_instagram_business_user_id_here",
			RequestTimeoutSecs: 30,
		},
		Monitoring: MonitoringConf{
			Keywords:           []string{"price", "info", "link", "details"},
			CheckIntervalSecs:  int(monitor.DefaultCheckInterval / time.Second),
			BackoffSecs:        int(monitor.DefaultBackoff / time.Second),
			MediaLimit:         monitor.DefaultMediaLimit,
			DMTemplate:         monitor.DefaultDMTemplate,
			KeywordTemplates:   map[string]string{},
			SeenCapacity:       10000,
			SeenRetentionHours: 7 * 24,
		},
		Telegram: TelegramConf{
			Enabled:  false,
			ApiToken: "tg_token",
			Public:   false,
		},
		DB: DBConf{
			File: "DB.sqlite3",
		},
		Debug: false,
	}
}

// ApplyEnv перекрывает значения из файла переменными окружения
func (conf *Config) ApplyEnv() error {
	return env.Parse(conf)
}

// Validate проверяет, что с такой конфигурацией можно запускать мониторинг
func (conf *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(conf.Instagram.AccessToken) == "" {
		errs = append(errs, errors.New("не указан access_token Instagram"))
	}
	if strings.TrimSpace(conf.Instagram.AccountID) == "" {
		errs = append(errs, errors.New("не указан account_id Instagram"))
	}
	if len(conf.Monitoring.Keywords) == 0 {
		errs = append(errs, errors.New("список ключевых слов пуст"))
	}
	for i, keyword := range conf.Monitoring.Keywords {
		if strings.TrimSpace(keyword) == "" {
			errs = append(errs, fmt.Errorf("ключевое слово №%d пустое", i+1))
		}
	}
	if conf.Monitoring.CheckIntervalSecs <= 0 {
		errs = append(errs, errors.New("check_interval_secs должен быть больше нуля"))
	}
	if conf.Monitoring.BackoffSecs <= 0 {
		errs = append(errs, errors.New("backoff_secs должен быть больше нуля"))
	}
	if conf.Monitoring.MediaLimit <= 0 {
		errs = append(errs, errors.New("media_limit должен быть больше нуля"))
	}
	if conf.Telegram.Enabled && strings.TrimSpace(conf.Telegram.ApiToken) == "" {
		errs = append(errs, errors.New("Telegram включен, но api_token не указан"))
	}

	return errors.Join(errs...)
}

func (conf *Config) CheckInterval() time.Duration {
	return time.Duration(conf.Monitoring.CheckIntervalSecs) * time.Second
}

func (conf *Config) MonitorOptions() monitor.Options {
	return monitor.Options{
		MediaLimit:           conf.Monitoring.MediaLimit,
		Backoff:              time.Duration(conf.Monitoring.BackoffSecs) * time.Second,
		DMTemplate:           conf.Monitoring.DMTemplate,
		KeywordTemplates:     conf.Monitoring.KeywordTemplates,
		ReplyInComments:      conf.Monitoring.ReplyInComments,
		CommentReplyTemplate: conf.Monitoring.CommentReplyTemplate,
		Debug:                conf.Debug,
	}
}

func (conf *Config) Save(filepath string) error {
	file, err := os.OpenFile(filepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	jsonBytes, err := json.MarshalIndent(&conf, "", "\t")
	if err != nil {
		return err
	}

	_, err = file.Write(jsonBytes)

	// Запоминаем, куда сохранили
	CONFIG_PATH = filepath

	return err
}

func ConfigFrom(filepath string) (*Config, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var conf Config
	err = json.Unmarshal(contents, &conf)
	if err != nil {
		return nil, err
	}

	// Запоминаем, откуда взяли
	CONFIG_PATH = filepath

	return &conf, nil
}

// Обновляет конфигурационный файл
func (conf *Config) Update() error {
	if CONFIG_PATH == "" {
		return errors.New("неизвестен путь к конфигурационному файлу")
	}

	return conf.Save(CONFIG_PATH)
}
