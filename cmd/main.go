package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/config"
	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/entity"
	"github.com/daniel-training/chat-backend/internal/queue"
	room_repo "github.com/daniel-training/chat-backend/internal/repo/room"
	"github.com/daniel-training/chat-backend/internal/routers"
	room_service "github.com/daniel-training/chat-backend/internal/use-case/room-case"
	user_service "github.com/daniel-training/chat-backend/internal/use-case/user-case"
	"github.com/daniel-training/chat-backend/internal/websocket"
	"github.com/daniel-training/chat-backend/internal/worker"
	"github.com/daniel-training/chat-backend/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	st, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer st.Close()

	// live messaging core
	subs := chat.NewTable()
	registry := chat.NewRegistry(subs)
	rooms := chat.NewRooms(subs, config.Conf.CHAT.IdleThreshold, config.Conf.CHAT.SweepInterval)

	producer := queue.NewProducer(st.Redis)
	chatRouter := chat.NewRouter(registry, rooms, subs, queue.NewMessageArchiver(producer))

	gw := websocket.NewGateway(registry, subs, rooms, chatRouter)

	userService := user_service.NewUserService(st)
	roomService := room_service.NewRoomService(st, rooms, subs)

	gw.OnRoomCreated = func(room *chat.Room) {
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			stored := &entity.Room{
				UUID:        room.UUID,
				Title:       room.Title,
				Description: room.Description,
				OwnerID:     room.Owner.ID,
				Kind:        room.Kind,
			}
			if err := roomService.PersistCreated(pctx, stored); err != nil {
				log.Error().Str("title", room.Title).Msg("room persistence failed")
			}
		}()
	}

	gw.OnGuestGone = func(user *entity.User) {
		job := queue.NewJob(queue.JobReapGuest, queue.ReapGuestPayload{
			UserID:   user.ID,
			Nickname: user.Nickname,
		}, 1, 5, time.Hour)
		qctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := producer.Enqueue(qctx, job); err != nil {
			log.Error().Err(err).Int64("userID", user.ID).Msg("failed to enqueue guest reap")
		}
	}

	seedDurableRooms(ctx, st, rooms)

	go rooms.Start(ctx)

	authFunc := websocket.JWTWebSocketAuth(st.JwtSecret.Public, userService, userService)
	wsHandler := websocket.NewHandler(gw, authFunc, config.Conf.CHAT.SendBuffer, config.Conf.CHAT.MaxConnections)
	log.Info().Msg("Websocket gateway initialized")

	r := routers.NewRouter(st, registry, rooms, subs, wsHandler)

	workerPool := worker.NewWorkerPool(st, 5)
	workerPool.Start(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	workerPool.Wait()
}

// seedDurableRooms mirrors every stored SYSTEM and PERSISTENT room into
// the live manager so subscriptions resolve them from the first frame.
func seedDurableRooms(ctx context.Context, st *state.AppState, rooms *chat.Rooms) {
	repo := room_repo.NewRoomRepo(st)
	stored, err := repo.ListDurable(ctx)
	if err != nil {
		log.Fatal().Str("cause", err.Message).Msg("failed to load durable rooms")
	}

	for _, room := range stored {
		rooms.Seed(room, room.Owner)
	}
	log.Info().Int("rooms", len(stored)).Msg("durable rooms seeded")
}
