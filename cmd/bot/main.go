package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/common/clock"
	"github.com/undercover-bot/undercover/internal/common/identifier"
	"github.com/undercover-bot/undercover/internal/common/randomizer"
	"github.com/undercover-bot/undercover/internal/config"
	"github.com/undercover-bot/undercover/internal/handlers/chat"
	"github.com/undercover-bot/undercover/internal/handlers/discord"
	"github.com/undercover-bot/undercover/internal/lock"
	playerRepo "github.com/undercover-bot/undercover/internal/repositories/player"
	sessionRepo "github.com/undercover-bot/undercover/internal/repositories/session"
	gameService "github.com/undercover-bot/undercover/internal/services/game"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	clk := clock.New()

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
		Clock:       clk,
		TTL:         cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session repository")
	}

	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: redisClient,
		Clock:       clk,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create player repository")
	}

	locker, err := lock.NewRedis(&lock.Config{
		RedisClient: redisClient,
		LeaseTTL:    cfg.LockLeaseTTL,
		WaitTimeout: cfg.LockWaitTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session locker")
	}

	if cfg.DiscordToken == "" {
		log.Fatal().Msg("DISCORD_TOKEN environment variable is required")
	}

	discordSession, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}

	push, err := discord.NewDMNotifier(discordSession)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create DM notifier")
	}

	gameSvc, err := gameService.New(&gameService.Config{
		SessionRepo: sessions,
		PlayerRepo:  players,
		Locker:      locker,
		Notifier:    push,
		Clock:       clk,
		IDGenerator: identifier.New(),
		Randomizer:  randomizer.New(),
		MinPlayers:  cfg.MinPlayers,
		MaxPlayers:  cfg.MaxPlayers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game service")
	}

	router, err := chat.NewRouter(&chat.Config{
		GameService: gameSvc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create command router")
	}

	bot, err := discord.New(&discord.Config{
		Session: discordSession,
		Router:  router,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord bot")
	}

	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start Discord bot")
	}

	log.Info().
		Str("redis_addr", cfg.RedisAddr).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("undercover bot running, press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := bot.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop Discord bot")
	}
}
