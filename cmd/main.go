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

package main

import (
	"Unbewohnte/IGKEYWORDDMbot/internal/bot"
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const CONFIG_NAME string = "config.json"

var (
	CONFIG *bot.Config
)

func init() {
	logfile, err := os.Create("logs.txt")
	if err != nil {
		log.Fatal("Failed to create logs file: " + err.Error())
	}
	log.SetOutput(io.MultiWriter(logfile, os.Stdout))

	// .env необязателен, переменные могут прийти и из окружения
	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("Не удалось прочитать .env: " + err.Error())
	}

	configPath := os.Getenv("IGDM_CONFIG")
	if configPath == "" {
		configPath = CONFIG_NAME
	}

	CONFIG, err = bot.ConfigFrom(configPath)
	if err != nil {
		log.Println("Не удалось открыть конфигурационный файл: " + err.Error() + ". Создаем новый...")
		CONFIG = bot.DefaultConfig()
		err = CONFIG.Save(configPath)
		if err != nil {
			log.Panic("Не получилось создать новый конфигурационный файл: " + err.Error())
		}
		os.Exit(0)
	}

	err = CONFIG.ApplyEnv()
	if err != nil {
		log.Panic("Не удалось применить переменные окружения: " + err.Error())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := bot.NewBot(CONFIG)
	if err != nil {
		log.Panic(err)
	}

	if err := bot.Start(ctx); err != nil {
		log.Panic(err)
	}

	log.Println("Мониторинг остановлен")
}
