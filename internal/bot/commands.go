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
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
)

type Command struct {
	Name        string
	Description string
	Example     string
	Group       string
	Call        func(*telego.Message)
}

func (bot *Bot) NewCommand(cmd Command) {
	bot.commands = append(bot.commands, cmd)
}

func (bot *Bot) CommandByName(name string) *Command {
	for i := range bot.commands {
		if bot.commands[i].Name == name {
			return &bot.commands[i]
		}
	}

	return nil
}

func constructCommandHelpMessage(command Command) string {
	commandHelp := ""
	commandHelp += fmt.Sprintf("\n*Команда:* \"/%s\"\n*Описание:* %s\n", command.Name, command.Description)
	if command.Example != "" {
		commandHelp += fmt.Sprintf("*Пример:* `%s`\n", command.Example)
	}

	return commandHelp
}

func (bot *Bot) constructHelpMessage() string {
	var helpMessage string

	commandsByGroup := make(map[string][]Command)
	for _, command := range bot.commands {
		commandsByGroup[command.Group] = append(commandsByGroup[command.Group], command)
	}

	groups := []string{}
	for g := range commandsByGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, group := range groups {
		helpMessage += fmt.Sprintf("\n\n*[%s]*\n", group)
		for _, command := range commandsByGroup[group] {
			helpMessage += constructCommandHelpMessage(command)
		}
	}

	return helpMessage
}

func (bot *Bot) Help(message *telego.Message) {
	if name, ok := commandArgument(message); ok {
		// Ответить лишь по конкретной команде
		command := bot.CommandByName(strings.TrimPrefix(strings.ToLower(name), "/"))
		if command != nil {
			bot.answerBack(message, constructCommandHelpMessage(*command), false)
			return
		}
	}

	bot.answerBack(message, bot.constructHelpMessage(), false)
}

func (bot *Bot) About(message *telego.Message) {
	bot.answerBack(message,
		`IGKEYWORDDM bot - бот, отвечающий личным сообщением в Instagram на комментарии с ключевыми словами под постами аккаунта. Оповещает оператора о каждой отправке в Telegram.

Source: https://github.com/Unbewohnte/IGKEYWORDDMbot
Лицензия: GPLv3`,
		false,
	)
}

func (bot *Bot) AddUser(message *telego.Message) {
	id, err := parseID(message)
	if err != nil {
		bot.sendError(message, "Пользователь: "+err.Error())
		return
	}

	bot.confMu.Lock()
	for _, allowedID := range bot.conf.Telegram.AllowedUserIDs {
		if id == allowedID {
			bot.confMu.Unlock()
			bot.sendError(message, "Этот пользователь уже есть в списке разрешенных.")
			return
		}
	}

	bot.conf.Telegram.AllowedUserIDs = append(bot.conf.Telegram.AllowedUserIDs, id)

	// Сохраним в файл
	err = bot.conf.Update()
	bot.confMu.Unlock()
	if err != nil {
		log.Printf("Не удалось сохранить конфигурацию: %s", err)
	}

	bot.sendSuccess(message, "Пользователь успешно добавлен!")
}

func (bot *Bot) TogglePublicity(message *telego.Message) {
	bot.confMu.Lock()
	bot.conf.Telegram.Public = !bot.conf.Telegram.Public
	public := bot.conf.Telegram.Public

	// Обновляем конфигурационный файл
	err := bot.conf.Update()
	bot.confMu.Unlock()
	if err != nil {
		log.Printf("Не удалось сохранить конфигурацию: %s", err)
	}

	if public {
		bot.answerBack(message, "Доступ к боту теперь у всех.", false)
	} else {
		bot.answerBack(message, "Доступ к боту теперь только у избранных.", false)
	}
}

func (bot *Bot) RemoveUser(message *telego.Message) {
	id, err := parseID(message)
	if err != nil {
		bot.sendError(message, "Пользователь: "+err.Error())
		return
	}

	bot.confMu.Lock()
	tmp := bot.conf.Telegram.AllowedUserIDs
	bot.conf.Telegram.AllowedUserIDs = []int64{}
	for _, allowedID := range tmp {
		if allowedID == id {
			continue
		}

		bot.conf.Telegram.AllowedUserIDs = append(bot.conf.Telegram.AllowedUserIDs, allowedID)
	}

	// Сохраним в файл
	err = bot.conf.Update()
	bot.confMu.Unlock()
	if err != nil {
		log.Printf("Не удалось сохранить конфигурацию: %s", err)
	}

	bot.sendSuccess(message, "Пользователь успешно удален!")
}

func (bot *Bot) constructConfigMessage() string {
	bot.confMu.Lock()
	defer bot.confMu.Unlock()

	var response string = ""

	response += "*Нынешняя конфигурация*: \n"
	response += "\n*[ОБЩЕЕ]*:\n"
	response += fmt.Sprintf("*Общедоступный?*: `%v`\n", bot.conf.Telegram.Public)
	response += fmt.Sprintf("*Разрешенные пользователи*: `%+v`\n", bot.conf.Telegram.AllowedUserIDs)
	response += fmt.Sprintf("*ID мониторинговый чат*: `%+v`\n", bot.conf.Telegram.MonitoringChannelID)

	response += "\n*[INSTAGRAM]*:\n"
	response += fmt.Sprintf("*Аккаунт*: `%s`\n", bot.conf.Instagram.AccountID)
	if bot.conf.Instagram.AccessToken != "" {
		response += "*Токен*: имеется\n"
	} else {
		response += "*Токен*: отсутствует\n"
	}

	response += "\n*[МОНИТОРИНГ]*:\n"
	response += fmt.Sprintf("*Интервал проверки*: `%v`\n", bot.conf.CheckInterval())
	response += fmt.Sprintf("*Постов за проход*: `%d`\n", bot.conf.Monitoring.MediaLimit)
	response += fmt.Sprintf("*Ответ под комментарием?*: `%v`\n", bot.conf.Monitoring.ReplyInComments)

	return response
}

func (bot *Bot) PrintConfig(message *telego.Message) {
	bot.answerBack(message, bot.constructConfigMessage(), true)
}

func (bot *Bot) constructKeywordsMessage() string {
	var response strings.Builder
	response.WriteString("🔑 *Ключевые слова*:\n\n")

	for _, keyword := range bot.conf.Monitoring.Keywords {
		response.WriteString(fmt.Sprintf("🔹 `%s`", keyword))
		if _, ok := bot.conf.Monitoring.KeywordTemplates[keyword]; ok {
			response.WriteString(" (свой шаблон)")
		}
		response.WriteString("\n")
	}

	response.WriteString("\n✉️ *Шаблон по умолчанию*:\n")
	response.WriteString(escapeMarkdown(bot.conf.Monitoring.DMTemplate))

	return response.String()
}

func (bot *Bot) Keywords(message *telego.Message) {
	bot.answerBack(message, bot.constructKeywordsMessage(), false)
}

func (bot *Bot) Stats(message *telego.Message) {
	stats, err := bot.conf.GetDB().GetStats()
	if err != nil {
		bot.sendError(message, "Ошибка получения статистики: "+err.Error())
		return
	}

	if stats.Total == 0 {
		bot.answerBack(message, "Сообщений еще не отправлялось", false)
		return
	}

	var response strings.Builder
	response.WriteString("📊 *Статистика*:\n\n")
	response.WriteString(fmt.Sprintf("Всего: `%d`\nОтправлено: `%d`\nОшибок: `%d`\nОтветов под комментариями: `%d`\n",
		stats.Total, stats.Sent, stats.Failed, stats.Replies,
	))
	response.WriteString(fmt.Sprintf("Последнее: %s\n", formatTimeAgo(stats.LastAt.Unix())))

	if len(stats.ByKeyword) > 0 {
		response.WriteString("\n*По ключевым словам*:\n")
		for _, keywordStats := range stats.ByKeyword {
			response.WriteString(fmt.Sprintf("🔹 `%s`: %d / %d\n",
				keywordStats.Keyword, keywordStats.Sent, keywordStats.Failed,
			))
		}
	}

	bot.answerBack(message, response.String(), false)
}

func (bot *Bot) Recent(message *telego.Message) {
	limit := 5
	if arg, ok := commandArgument(message); ok {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 || n > 50 {
			bot.sendError(message, "Количество должно быть числом от 1 до 50")
			return
		}
		limit = n
	}

	messages, err := bot.conf.GetDB().GetRecentDirectMessages(limit)
	if err != nil {
		bot.sendError(message, "Ошибка получения сообщений: "+err.Error())
		return
	}

	if len(messages) == 0 {
		bot.answerBack(message, "Сообщений еще не отправлялось", false)
		return
	}

	var response strings.Builder
	response.WriteString("📋 *Последние сообщения*:\n\n")

	for _, dm := range messages {
		status := "✅"
		if dm.Status != db.StatusSent {
			status = "❌"
		}

		response.WriteString(
			fmt.Sprintf("%s *%s* по `%s` • %s\n💬 %s\n🔗 [Пост](%s)\n\n",
				status,
				escapeMarkdown(dm.RecipientUsername),
				dm.Keyword,
				formatTimeAgo(dm.CreatedAt.Unix()),
				escapeMarkdown(processCommentText(dm.CommentText)),
				dm.PostURL,
			),
		)
	}

	bot.answerBack(message, response.String(), false)
}

func (bot *Bot) ChatID(message *telego.Message) {
	text := fmt.Sprintf("ID Чата: `%d`", message.Chat.ID)
	if message.MessageThreadID != 0 {
		text += fmt.Sprintf("\nID Топика: `%d`", message.MessageThreadID)
	}

	bot.answerBack(message, text, false)
}

func (bot *Bot) SetChatID(message *telego.Message) {
	newID, err := parseID(message)
	if err != nil {
		bot.sendError(message, "Чат: "+err.Error())
		return
	}

	bot.confMu.Lock()
	bot.conf.Telegram.MonitoringChannelID = newID
	bot.conf.Telegram.MonitoringThreadID = 0
	if newID == message.Chat.ID {
		// Оповещения пойдут в тот топик, откуда пришла команда
		bot.conf.Telegram.MonitoringThreadID = int64(message.MessageThreadID)
	}
	err = bot.conf.Update()
	bot.confMu.Unlock()
	if err != nil {
		log.Printf("Не удалось сохранить конфигурацию: %s", err)
	}

	bot.sendSuccess(message, "ID Чата изменено")
}
