package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"backend-lostfound/internal/account"
	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/config"
	"backend-lostfound/internal/db"
	"backend-lostfound/internal/invite"
	"backend-lostfound/internal/organization"
	"backend-lostfound/internal/post"
	"backend-lostfound/internal/storage"
	"backend-lostfound/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// BodyLimit leaves room for a 5MB photo plus the other form fields so an
// oversized photo still reaches the size check.
const BodyLimit = 8 * 1024 * 1024

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub

	Posts         *post.Service
	Accounts      *account.Service
	Organizations *organization.Service
	Invites       *invite.Service
	Storage       *storage.Service
	Auth          *auth.Service
}

type stores struct {
	posts    post.Store
	accounts account.Store
	orgs     organization.Store
	invites  invite.Store
	objects  storage.Store
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    BodyLimit,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := newStores(ctx, cfg, pool)
	if err != nil {
		return nil, err
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pool,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	var tokens auth.TokenStore
	if redisClient != nil {
		tokens = auth.NewRedisTokenStore(redisClient)
	}
	s.Auth = auth.NewService(cfg.JWTSecret, tokens)
	s.Storage = storage.NewService(st.objects)
	s.Posts = post.NewService(st.posts, s.Storage, s.Stream)
	s.Organizations = organization.NewService(st.orgs)
	s.Invites = invite.NewService(st.invites)
	s.Accounts = account.NewService(st.accounts, s.Auth, s.Invites)

	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		slog.Warn("super admin credentials not configured, skipping built-in account")
	} else if err := s.Accounts.EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		_ = s.Stream.Close()
		return nil, err
	}
	if pool == nil && cfg.SeedDemoData {
		for _, d := range account.DemoAdmins(time.Now()) {
			if err := s.Accounts.Seed(ctx, d.Account, d.Password); err != nil {
				_ = s.Stream.Close()
				return nil, fmt.Errorf("seed admin %s: %w", d.Account.Email, err)
			}
		}
	}

	registerRoutes(s)
	return s, nil
}

// newStores picks Postgres-backed stores when a pool is available and the
// in-memory ones otherwise.
func newStores(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (stores, error) {
	if pool != nil {
		if err := db.Migrate(ctx, pool); err != nil {
			return stores{}, err
		}
		slog.Info("using postgres stores")
		return stores{
			posts:    post.NewPostgresStore(pool),
			accounts: account.NewPostgresStore(pool),
			orgs:     organization.NewPostgresStore(pool),
			invites:  invite.NewPostgresStore(pool),
			objects:  storage.NewPostgresStore(pool),
		}, nil
	}

	slog.Info("using in-memory stores", "seed_demo_data", cfg.SeedDemoData)
	var (
		posts   []post.Post
		orgs    []organization.Organization
		invites []invite.Invite
	)
	if cfg.SeedDemoData {
		now := time.Now()
		posts = post.DemoPosts(now)
		orgs = organization.DemoOrganizations(now)
		invites = invite.DemoInvites(now)
	}
	return stores{
		posts:    post.NewMemoryStore(posts...),
		accounts: account.NewMemoryStore(),
		orgs:     organization.NewMemoryStore(orgs...),
		invites:  invite.NewMemoryStore(invites...),
		objects:  storage.NewMemoryStore(),
	}, nil
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	authGroup := s.App.Group("/auth")
	account.RegisterRoutes(authGroup, s.Accounts)
	auth.RegisterRoutes(authGroup, s.Auth)

	adminGroup := s.App.Group("/admin")
	account.RegisterAdminRoutes(adminGroup, s.Accounts, jwtMiddleware)
	post.RegisterAdminRoutes(adminGroup, s.Posts, jwtMiddleware)

	post.RegisterRoutes(s.App.Group("/posts"), s.Posts)
	account.RegisterDirectoryRoutes(s.App.Group("/admins"), s.Accounts, jwtMiddleware)
	organization.RegisterRoutes(s.App.Group("/organizations"), s.Organizations, jwtMiddleware)
	invite.RegisterRoutes(s.App.Group("/invites"), s.Invites, jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), s.Storage, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// ErrorHandler renders every error as {"message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
