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
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mymmrac/telego"
)

// processCommentText подменяет текст, который нечего показывать
func processCommentText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "((Пустой текст, возможно стикер или медиа))"
	}

	if len([]rune(text)) > 500 {
		text = string([]rune(text)[:500]) + "\n\n⚠️ Комментарий был обрезан."
	}

	return text
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)

	return replacer.Replace(text)
}

func formatTimeAgo(timestamp int64) string {
	ago := time.Since(time.Unix(timestamp, 0))

	switch {
	case ago.Seconds() < 10:
		return "только что"
	case ago.Minutes() < 1:
		return fmt.Sprintf("%d сек назад", int(ago.Seconds()))
	case ago.Hours() < 1:
		return fmt.Sprintf("%d мин назад", int(ago.Minutes()))
	case ago.Hours() < 24:
		return fmt.Sprintf("%d ч назад", int(ago.Hours()))
	default:
		return "давно"
	}
}

func formatCommentTime(match monitor.Match) string {
	commentTime, err := match.Comment.Time()
	if err != nil {
		return "неизвестно"
	}
	commentTime = commentTime.Local()

	now := time.Now()
	if commentTime.YearDay() == now.YearDay() && commentTime.Year() == now.Year() {
		return commentTime.Format("сегодня в 15:04") + " (" + formatTimeAgo(commentTime.Unix()) + ")"
	}

	return commentTime.Format("02.01.2006 в 15:04")
}

func constructMatchMessage(match monitor.Match) string {
	dmStatus := "✅ отправлено"
	if match.SendErr != nil {
		dmStatus = "❌ ошибка: " + escapeMarkdown(match.SendErr.Error())
	}

	msgText := fmt.Sprintf(
		"🎯 *Ключевое слово \"%s\"*\n\n"+
			"👤 *Автор*: %s\n"+
			"💬 *Комментарий*: %s\n"+
			"🔗 *Ссылка*: [Перейти к посту](%s)\n"+
			"⏰ *Время комментария*: %s\n"+
			"📨 *Личное сообщение*: %s",
		escapeMarkdown(match.Keyword),
		escapeMarkdown(match.Comment.AuthorName()),
		escapeMarkdown(processCommentText(match.Comment.Text)),
		match.Media.Permalink,
		formatCommentTime(match),
		dmStatus,
	)

	switch {
	case match.ReplyErr != nil:
		msgText += "\n↩️ *Ответ под комментарием*: ❌ ошибка: " + escapeMarkdown(match.ReplyErr.Error())
	case match.Replied:
		msgText += "\n↩️ *Ответ под комментарием*: ✅ оставлен"
	}

	return msgText
}

// directMessageFromMatch переводит результат мониторинга в запись журнала
func directMessageFromMatch(match monitor.Match) db.DirectMessage {
	record := db.DirectMessage{
		CommentID:         match.Comment.ID,
		MediaID:           match.Media.ID,
		PostURL:           match.Media.Permalink,
		RecipientID:       match.Comment.AuthorID(),
		RecipientUsername: match.Comment.AuthorName(),
		CommentText:       match.Comment.Text,
		Keyword:           match.Keyword,
		MessageText:       match.MessageText,
		Status:            db.StatusSent,
		CommentReply:      db.ReplyNone,
	}

	if match.SendErr != nil {
		record.Status = db.StatusFailed
		record.FailureReason = match.SendErr.Error()
	} else if match.Receipt != nil {
		record.PlatformMessageID = match.Receipt.MessageID
	}

	switch {
	case match.ReplyErr != nil:
		record.CommentReply = db.ReplyFailed
	case match.Replied:
		record.CommentReply = db.ReplySent
	}

	return record
}

// RecordMatch сохраняет результат отправки в журнал
func (bot *Bot) RecordMatch(match monitor.Match) error {
	database := bot.conf.GetDB()
	if database == nil {
		return nil
	}

	record := directMessageFromMatch(match)
	_, err := database.AddDirectMessage(&record)
	return err
}

func (bot *Bot) notifyOperator(ctx context.Context, text string) {
	bot.confMu.Lock()
	chatID := bot.conf.Telegram.MonitoringChannelID
	threadID := bot.conf.Telegram.MonitoringThreadID
	bot.confMu.Unlock()

	if bot.api == nil || chatID == 0 {
		return
	}

	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: "Markdown",
	}

	// Указываем ID топика, если он установлен
	if threadID != 0 {
		params.MessageThreadID = int(threadID)
	}

	if _, err := bot.api.SendMessage(ctx, params); err != nil {
		log.Printf("Ошибка отправки уведомления: %v", err)
	}
}

func (bot *Bot) NotifyMatch(ctx context.Context, match monitor.Match) {
	bot.notifyOperator(ctx, constructMatchMessage(match))
}

func (bot *Bot) NotifyAuthFailure(ctx context.Context, err error) {
	bot.notifyOperator(ctx, fmt.Sprintf(
		"🔒 *Instagram отклонил токен доступа*\n\n"+
			"Ошибка: %s\n\n"+
			"Мониторинг продолжает попытки, но без нового токена сообщения отправляться не будут.",
		escapeMarkdown(err.Error()),
	))
}
