package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/josecbairesdev/pictionary-webapp/internal/room"
	"github.com/josecbairesdev/pictionary-webapp/internal/words"
	"github.com/josecbairesdev/pictionary-webapp/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Setup(getEnv("LOG_LEVEL", "info"))

	maxRounds := getEnvInt("MAX_ROUNDS", 3)
	roundTime := getEnvInt("ROUND_TIME", 60)

	registry := room.NewRegistry()
	hub := room.NewHub()
	session := room.NewSession(registry, hub, words.NewSource())

	app := fiber.New()
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Get("/api/rooms", func(c *fiber.Ctx) error {
		return c.JSON(registry.List())
	})

	app.Post("/api/rooms", func(c *fiber.Ctx) error {
		name := c.Query("name")
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Room name is required"})
		}
		r := registry.Create(name, maxRounds, roundTime)
		log.Info().Str("room", r.ID).Str("name", name).Msg("room created")
		return c.JSON(r.Snapshot())
	})

	app.Get("/api/rooms/:id", func(c *fiber.Ctx) error {
		r, ok := registry.Get(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Room not found"})
		}
		return c.JSON(r.Snapshot())
	})

	app.Post("/api/rooms/:id/join", func(c *fiber.Ctx) error {
		r, ok := registry.Get(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Room not found"})
		}
		playerName := c.Query("player_name")
		if playerName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Player name is required"})
		}
		p, err := r.Join(playerName)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Player name already taken"})
		}
		return c.JSON(fiber.Map{
			"player_id": p.ID,
			"room":      r.Snapshot(),
		})
	})

	app.Post("/api/rooms/:id/start", func(c *fiber.Ctx) error {
		currentRound, err := session.StartGame(c.Params("id"))
		if err != nil {
			if errors.Is(err, room.ErrRoomNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Room not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
		}
		return c.JSON(fiber.Map{
			"status":        "started",
			"current_round": currentRound,
		})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:roomId/:playerId", websocket.New(func(c *websocket.Conn) {
		roomID := c.Params("roomId")
		playerID := c.Params("playerId")

		r, ok := registry.Get(roomID)
		if !ok || !r.HasPlayer(playerID) {
			c.Close()
			return
		}

		client := room.NewClient(roomID, playerID, c, session)
		if err := session.Connect(roomID, playerID, client); err != nil {
			c.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	}))

	port := getEnv("PORT", "8000")
	log.Info().Str("port", port).Msg("starting pictionary server")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
