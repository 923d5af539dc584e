package cli

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"procurement/chat"
	"procurement/config"
	"procurement/handlers"
	"procurement/middleware"
	"procurement/routes"
	"procurement/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = runServer
}

// NewApp builds the fiber application with its middleware and routes.
func NewApp(h *handlers.Handler) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())

	routes.SetupRoutes(app, h)
	return app
}

func runServer(cmd *cobra.Command, args []string) error {
	log := config.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	middleware.JWTSecret = []byte(cfg.JWTSecret)

	b, err := openBackend(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	orch := chat.NewOrchestrator(b.generator, cfg.ChatHistoryLimit)
	app := NewApp(handlers.New(cfg, b.service, orch, session.NewStore()))

	log.WithField("port", cfg.Port).Info("Starting server")
	return app.Listen(":" + cfg.Port)
}
