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
	"Unbewohnte/IGKEYWORDDMbot/internal/bot/social/instagram"
	"Unbewohnte/IGKEYWORDDMbot/internal/monitor"
	"Unbewohnte/IGKEYWORDDMbot/internal/seen"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mymmrac/telego"
)

type Bot struct {
	api       *telego.Bot
	conf      *Config
	confMu    sync.Mutex
	commands  []Command
	instagram *instagram.Client
	seen      *seen.Set
	monitor   *monitor.Monitor
}

func NewBot(config *Config) (*Bot, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("неверная конфигурация: %w", err)
	}

	client := instagram.NewClient(
		config.Instagram.AccessToken,
		config.Instagram.AccountID,
		config.Instagram.BaseURL,
		time.Duration(config.Instagram.RequestTimeoutSecs)*time.Second,
	)

	seenSet := seen.New(
		config.Monitoring.SeenCapacity,
		time.Duration(config.Monitoring.SeenRetentionHours)*time.Hour,
	)

	bot := &Bot{
		conf:      config,
		instagram: client,
		seen:      seenSet,
		monitor:   monitor.New(client, seenSet, config.MonitorOptions()),
	}

	// Телеграм нужен только для оповещений оператора, без него бот тоже работает
	if config.Telegram.Enabled {
		api, err := telego.NewBot(config.Telegram.ApiToken)
		if err != nil {
			return nil, fmt.Errorf("не удалось создать Telegram бота: %w", err)
		}
		bot.api = api
	}

	bot.monitor.SetNotifier(bot)
	bot.monitor.SetJournal(bot)

	return bot, nil
}

func (bot *Bot) Init() error {
	_, err := bot.conf.OpenDB()
	if err != nil {
		return fmt.Errorf("не удалось открыть базу данных: %w", err)
	}

	bot.NewCommand(Command{
		Name:        "help",
		Description: "Напечатать вспомогательное сообщение",
		Group:       "Общее",
		Call:        bot.Help,
	})

	bot.NewCommand(Command{
		Name:        "about",
		Description: "Напечатать информацию о боте",
		Group:       "Общее",
		Call:        bot.About,
	})

	bot.NewCommand(Command{
		Name:        "conf",
		Description: "Написать текущую конфигурацию",
		Group:       "Общее",
		Call:        bot.PrintConfig,
	})

	bot.NewCommand(Command{
		Name:        "togglepublic",
		Description: "Включить или выключить публичный/приватный доступ к боту",
		Group:       "Телеграм",
		Call:        bot.TogglePublicity,
	})

	bot.NewCommand(Command{
		Name:        "adduser",
		Description: "Добавить доступ к боту определенному пользователю по ID (напишите боту @userinfobot для получения своего ID)",
		Example:     "/adduser 5293210034",
		Group:       "Телеграм",
		Call:        bot.AddUser,
	})

	bot.NewCommand(Command{
		Name:        "rmuser",
		Description: "Убрать доступ к боту определенному пользователю по ID",
		Example:     "/rmuser 5293210034",
		Group:       "Телеграм",
		Call:        bot.RemoveUser,
	})

	bot.NewCommand(Command{
		Name:        "keywords",
		Description: "Показать отслеживаемые ключевые слова и шаблоны сообщений",
		Group:       "Мониторинг",
		Call:        bot.Keywords,
	})

	bot.NewCommand(Command{
		Name:        "stats",
		Description: "Показать статистику отправленных сообщений",
		Group:       "Мониторинг",
		Call:        bot.Stats,
	})

	bot.NewCommand(Command{
		Name:        "recent",
		Description: "Показать последние отправленные сообщения",
		Example:     "/recent 5",
		Group:       "Мониторинг",
		Call:        bot.Recent,
	})

	bot.NewCommand(Command{
		Name:        "chatid",
		Description: "Показать ID канала",
		Group:       "Общее",
		Call:        bot.ChatID,
	})

	bot.NewCommand(Command{
		Name:        "setchatid",
		Description: "Сменить ID чата для оповещений о найденных комментариях",
		Example:     "/setchatid -1001234567890",
		Group:       "Общее",
		Call:        bot.SetChatID,
	})

	return nil
}

// Start запускает мониторинг и блокируется до отмены контекста
func (bot *Bot) Start(ctx context.Context) error {
	if err := bot.Init(); err != nil {
		return err
	}
	defer bot.conf.GetDB().Close()

	if bot.api != nil {
		me, err := bot.api.GetMe(ctx)
		if err != nil {
			return fmt.Errorf("не удалось авторизоваться в Telegram: %w", err)
		}
		log.Printf("Бот авторизован как %s", me.Username)

		go bot.handleUpdates(ctx)
	}

	log.Printf("Мониторим аккаунт Instagram %s", bot.instagram.AccountID())

	err := bot.monitor.MonitorForKeywords(ctx, bot.conf.Monitoring.Keywords, bot.conf.CheckInterval())
	if ctx.Err() != nil {
		return nil
	}

	return err
}

func (bot *Bot) handleUpdates(ctx context.Context) {
	startTime := time.Now()
	retryDelay := 5 * time.Second
	for {
		updates, err := bot.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 60})
		if err != nil {
			log.Printf("Не удалось получить обновления Telegram: %s", err)
		} else {
			for update := range updates {
				if update.Message == nil {
					continue
				}

				go bot.handleMessage(update.Message, startTime)
			}
		}

		if ctx.Err() != nil {
			return
		}

		log.Println("Соединение с Telegram потеряно. Переподключение...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
		if retryDelay < 300*time.Second {
			retryDelay *= 2
		}
	}
}

func (bot *Bot) handleMessage(message *telego.Message, startTime time.Time) {
	// Пропускаем сообщения, пришедшие до старта бота
	if time.Unix(message.Date, 0).Before(startTime) {
		return
	}

	if message.From == nil {
		return
	}

	// Обычные сообщения в чате оповещений не трогаем
	text := strings.ToLower(strings.TrimSpace(message.Text))
	if !strings.HasPrefix(text, "/") {
		return
	}

	// Проверка на возможность дальнейшего общения с данным пользователем
	if !bot.isAllowed(message.From.ID) {
		bot.answerBack(message, "Вам не разрешено пользоваться этим ботом!", false)

		if bot.conf.Debug {
			log.Printf("Не допустили к общению пользователя %v", message.From.ID)
		}

		return
	}

	log.Printf("[%s] %s", formatUserName(message.From), message.Text)

	name := commandName(text)
	if command := bot.CommandByName(name); command != nil {
		command.Call(message)
		return
	}

	// Неверно введенная команда
	bot.sendCommandSuggestions(message, name)
}

// commandName достает имя команды из "/cmd@botname аргументы"
func commandName(text string) string {
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return name
}
