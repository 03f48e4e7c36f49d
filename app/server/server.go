package server

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"docchat/app/agent"
	"docchat/app/api"
	"docchat/config"
	"docchat/loader"
	"docchat/model"
	"docchat/store"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    64 * 1024 * 1024,
}

type Server struct {
	listenAddr string
	cfg        *config.AppConfig
	logger     *slog.Logger
}

func NewServer(addr string, cfg *config.AppConfig) *Server {
	if addr == "" {
		addr = ":5000"
	}
	return &Server{
		listenAddr: addr,
		cfg:        cfg,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	registry, err := store.NewFileRegistry(uploadDir)
	if err != nil {
		log.Fatal("error to create uploads directory: ", err)
	}

	index := s.buildIndex(ctx)
	embedder := model.NewEmbedder()
	extractor := loader.NewExtractor(s.cfg.Extraction)

	// fail fast: without the LLM key the service cannot answer anything
	synth, err := agent.NewSynthesizer()
	if err != nil {
		log.Fatal("error to configure the answer agent: ", err)
	}

	var (
		app           = fiber.New(fiberConfig)
		checkHandler  = api.NewCheckHandler()
		uploadHandler = api.NewUploadHandler(registry, index, embedder, extractor, s.cfg)
		askHandler    = api.NewAskHandler(index, embedder, synth, registry.Root(), s.cfg.Retrieval.TopK)
		fileHandler   = api.NewFileHandler(registry, extractor)
		check         = app.Group("/check")
	)

	app.Use(cors.New())

	app.Get("/", checkHandler.HandleHealthy)
	check.Get("/healthy", checkHandler.HandleHealthy)

	app.Post("/upload", uploadHandler.HandleUpload)
	app.Post("/ask", askHandler.HandleAsk)
	app.Get("/get-pdf-names", fileHandler.HandlePdfNames)
	app.Get("/get-pdf/:name", fileHandler.HandleGetPdf)
	app.Get("/get-page-text/:name", fileHandler.HandlePageText)

	if err := app.Listen(s.listenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

// buildIndex selects the embedding index backend: pgvector when a DSN is
// configured, in-process memory otherwise.
func (s *Server) buildIndex(ctx context.Context) store.Indexer {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		s.logger.Info("using in-memory embedding index")
		return store.NewMemoryIndex()
	}

	pg, err := store.NewPostgresIndex(ctx, dsn)
	if err != nil {
		log.Fatal("error to connect to Postgres database: ", err)
	}
	if err := pg.Init(ctx); err != nil {
		log.Fatal("error to create tables: ", err)
	}
	s.logger.Info("using pgvector embedding index")
	return pg
}
