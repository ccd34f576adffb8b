package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"strive/internal/activity"
	"strive/internal/collection"
	"strive/internal/comment"
	communityhandler "strive/internal/community/handler"
	communityservice "strive/internal/community/service"
	communitystore "strive/internal/community/store"
	"strive/internal/friend"
	goalhandler "strive/internal/goal/handler"
	goalservice "strive/internal/goal/service"
	goalstore "strive/internal/goal/store"
	"strive/internal/jwttoken"
	"strive/internal/platform/config"
	"strive/internal/platform/httpserver"
	"strive/internal/platform/logger"
	"strive/internal/platform/metrics"
	"strive/internal/platform/middleware"
	"strive/internal/platform/postgres"
	redisplatform "strive/internal/platform/redis"
	"strive/internal/post"
	httptransport "strive/internal/transport/http"
	"strive/internal/user"
	"strive/internal/workflow"
)

// main wires stores, services, workflows, and the HTTP surface. Business
// logic lives in the internal packages; this file only composes them.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Activity pipeline: services hand events to a channel, the worker
	// persists them and fans out to sinks.
	activityStore := activity.NewInMemoryStore()
	var sinks []activity.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := activity.NewKafkaSink(cfg.KafkaBrokers, cfg.ActivityTopic)
		if err != nil {
			log.Error("kafka sink unavailable, continuing without it", "error", err)
		} else {
			defer kafkaSink.Close()
			sinks = append(sinks, kafkaSink)
		}
	}
	inbox := make(chan activity.Event, 256)
	publisher := activity.NewPublisher(activityStore, sinks...)
	worker := activity.NewWorker(publisher, inbox)
	emitter := activity.NewChannelEmitter(inbox)

	// Store selection: DATABASE_URL present means postgres for the concepts
	// that ship a postgres store; everything else stays in memory.
	var (
		goalStore      goalservice.Store
		communityStore communityservice.Store
		postStore      post.Store
		workflowTx     workflow.Tx = workflow.NopTx{}
		health         func(ctx context.Context) error
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		goalStore = goalstore.NewPostgres(db)
		communityStore = communitystore.NewPostgres(db)
		postStore = post.NewPostgresStore(db)
		workflowTx = newWorkflowPostgresTx(db)
		health = db.PingContext
	} else {
		goalStore = goalstore.NewInMemory()
		communityStore = communitystore.NewInMemory()
		postStore = post.NewInMemoryStore()
	}

	userService := user.NewService(user.NewInMemoryStore(),
		user.WithLogger(log),
		user.WithMetrics(m),
		user.WithActivity(emitter),
	)
	goalService := goalservice.New(goalStore,
		goalservice.WithLogger(log),
		goalservice.WithMetrics(m),
		goalservice.WithActivity(emitter),
	)
	communityService := communityservice.New(communityStore,
		communityservice.WithLogger(log),
		communityservice.WithMetrics(m),
		communityservice.WithActivity(emitter),
	)
	postService := post.NewService(postStore,
		post.WithLogger(log),
		post.WithMetrics(m),
		post.WithActivity(emitter),
	)
	commentService := comment.NewService(comment.NewInMemoryStore(),
		comment.WithLogger(log),
		comment.WithActivity(emitter),
	)
	collectionService := collection.NewService(collection.NewInMemoryStore(),
		collection.WithLogger(log),
	)
	friendService := friend.NewService(friend.NewInMemoryStore(),
		friend.WithLogger(log),
		friend.WithActivity(emitter),
	)
	workflows := workflow.New(communityService, postService, commentService, goalService, workflowTx, log)

	tokens := jwttoken.New(cfg.JWTSigningKey, cfg.TokenTTL)

	var limiter *middleware.RateLimiter
	redisClient, err := redisplatform.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable, rate limiting disabled", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		limiter = middleware.NewRateLimiter(redisClient.Client, cfg.RateLimitPerMinute, log)
	}

	userHandler := user.NewHandler(userService, tokens, emitter, log)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        m,
		TokenValidator: tokens,
		RateLimiter:    limiter,
		Health:         health,
		Public: []httptransport.Registrar{
			httptransport.RegistrarFunc(userHandler.RegisterPublic),
		},
		Authed: []httptransport.Registrar{
			userHandler,
			communityhandler.New(communityService, log),
			goalhandler.New(goalService, workflows, log),
			post.NewHandler(postService, workflows, log),
			comment.NewHandler(commentService, workflows, log),
			collection.NewHandler(collectionService, log),
			friend.NewHandler(friendService, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting strive", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
