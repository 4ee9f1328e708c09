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
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	DefaultMediaLimit    = 10
	DefaultCheckInterval = 300 * time.Second
	DefaultBackoff       = 60 * time.Second
)

var ErrNoRecipient = errors.New("comment has no author id")

type Options struct {
	MediaLimit int
	Backoff    time.Duration

	DMTemplate       string
	KeywordTemplates map[string]string

	ReplyInComments      bool
	CommentReplyTemplate string

	Debug bool
}

type SeenSet interface {
	Contains(id string) bool
	Add(id string)
}

// Match - найденный комментарий и результат реакции на него
type Match struct {
	Media       social.MediaItem
	Comment     social.Comment
	Keyword     string
	MessageText string
	Receipt     *social.Receipt
	SendErr     error

	ReplyText string
	Replied   bool
	ReplyErr  error
}

type Notifier interface {
	NotifyMatch(ctx context.Context, match Match)
	NotifyAuthFailure(ctx context.Context, err error)
}

type Journal interface {
	RecordMatch(match Match) error
}

type PassResult struct {
	Media    int
	Comments int
	Matches  int
	Sent     int
	Failed   int
}

// Monitor хранит все состояние цикла мониторинга одного аккаунта
type Monitor struct {
	platform social.Platform
	seen     SeenSet
	opts     Options
	notifier Notifier
	journal  Journal

	sleep       func(ctx context.Context, d time.Duration) error
	authAlerted bool
}

func New(platform social.Platform, seen SeenSet, opts Options) *Monitor {
	if opts.MediaLimit <= 0 {
		opts.MediaLimit = DefaultMediaLimit
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.DMTemplate == "" {
		opts.DMTemplate = DefaultDMTemplate
	}

	return &Monitor{
		platform: platform,
		seen:     seen,
		opts:     opts,
		sleep:    sleepContext,
	}
}

func (m *Monitor) SetNotifier(notifier Notifier) {
	m.notifier = notifier
}

func (m *Monitor) SetJournal(journal Journal) {
	m.journal = journal
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MonitorForKeywords крутит проверки до отмены контекста.
// Ошибка получения постов или комментариев не завершает цикл: ждем Backoff и начинаем заново.
func (m *Monitor) MonitorForKeywords(ctx context.Context, keywords []string, checkInterval time.Duration) error {
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}

	log.Printf("Запускаем мониторинг ключевых слов %v с интервалом %s", keywords, checkInterval)

	for {
		result, err := m.Pass(ctx, keywords)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			m.handlePassError(ctx, err)
			if err := m.sleep(ctx, m.opts.Backoff); err != nil {
				return err
			}
			continue
		}
		m.authAlerted = false

		log.Printf("Проверено %d постов (комментариев: %d, совпадений: %d, отправлено: %d, ошибок: %d). Ждем %s...",
			result.Media,
			result.Comments,
			result.Matches,
			result.Sent,
			result.Failed,
			checkInterval,
		)

		if err := m.sleep(ctx, checkInterval); err != nil {
			return err
		}
	}
}

func (m *Monitor) handlePassError(ctx context.Context, err error) {
	if !social.IsAuthError(err) {
		log.Printf("Ошибка во время мониторинга: %s. Ждем %s...", err, m.opts.Backoff)
		return
	}

	log.Printf("Ошибка авторизации Instagram API, проверьте токен: %s. Ждем %s...", err, m.opts.Backoff)

	// Оповещаем один раз за серию неудачных проверок
	if m.notifier != nil && !m.authAlerted {
		m.notifier.NotifyAuthFailure(ctx, err)
	}
	m.authAlerted = true
}

// Pass выполняет одну проверку: посты, их комментарии и ответы на новые совпадения.
// Посты и комментарии запрашиваются строго по очереди.
func (m *Monitor) Pass(ctx context.Context, keywords []string) (PassResult, error) {
	var result PassResult

	media, err := m.platform.ListRecentMedia(ctx, m.opts.MediaLimit)
	if err != nil {
		return result, fmt.Errorf("failed to list recent media: %w", err)
	}
	result.Media = len(media)

	for _, item := range media {
		comments, err := m.platform.ListComments(ctx, item.ID)
		if err != nil {
			return result, fmt.Errorf("failed to list comments of %s: %w", item.ID, err)
		}
		result.Comments += len(comments)

		for _, comment := range comments {
			if m.seen.Contains(comment.ID) {
				continue
			}

			keyword, ok := MatchKeyword(comment.Text, keywords)
			if !ok {
				continue
			}

			match := m.respond(ctx, item, comment, keyword)

			// Отмечаем независимо от успеха отправки: повторной отправки не будет
			m.seen.Add(comment.ID)

			result.Matches++
			if match.SendErr == nil {
				result.Sent++
			} else {
				result.Failed++
			}
		}
	}

	return result, nil
}

func (m *Monitor) templateFor(keyword string) string {
	if template, ok := m.opts.KeywordTemplates[keyword]; ok && template != "" {
		return template
	}
	return m.opts.DMTemplate
}

func (m *Monitor) respond(ctx context.Context, item social.MediaItem, comment social.Comment, keyword string) Match {
	match := Match{
		Media:   item,
		Comment: comment,
		Keyword: keyword,
	}
	author := comment.AuthorName()

	log.Printf("Ключевое слово '%s' в комментарии %s от @%s: %s", keyword, comment.ID, author, comment.Text)

	match.MessageText = RenderMessage(m.templateFor(keyword), comment, keyword, item)
	if comment.AuthorID() == "" {
		match.SendErr = ErrNoRecipient
	} else {
		match.Receipt, match.SendErr = m.platform.SendDirectMessage(ctx, comment.AuthorID(), match.MessageText)
	}

	if match.SendErr != nil {
		log.Printf("Не удалось отправить сообщение @%s: %s", author, match.SendErr)
	} else {
		log.Printf("Сообщение отправлено @%s", author)
	}

	if m.opts.ReplyInComments && m.opts.CommentReplyTemplate != "" {
		m.replyInComments(ctx, &match)
	}

	if m.journal != nil {
		if err := m.journal.RecordMatch(match); err != nil {
			log.Printf("Не удалось сохранить запись об отправке для %s: %s", comment.ID, err)
		}
	}

	if m.notifier != nil {
		m.notifier.NotifyMatch(ctx, match)
	}

	return match
}

func (m *Monitor) replyInComments(ctx context.Context, match *Match) {
	replier, ok := m.platform.(social.CommentReplier)
	if !ok {
		if m.opts.Debug {
			log.Printf("Платформа не поддерживает ответы под комментариями")
		}
		return
	}

	match.ReplyText = RenderMessage(m.opts.CommentReplyTemplate, match.Comment, match.Keyword, match.Media)
	if _, err := replier.ReplyToComment(ctx, match.Comment.ID, match.ReplyText); err != nil {
		match.ReplyErr = err
		log.Printf("Не удалось ответить под комментарием %s: %s", match.Comment.ID, err)
		return
	}
	match.Replied = true
}
