package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/daniel-training/chat-backend/internal/handlers"
	user_handler "github.com/daniel-training/chat-backend/internal/handlers/user-handler"
	"github.com/daniel-training/chat-backend/internal/middleware"
	"github.com/daniel-training/chat-backend/state"
)

func UserRouter(r chi.Router, st *state.AppState) {
	userHandler := user_handler.NewUserHandler(st)

	r.Post("/api/v1/users", handlers.WrapHandler(userHandler.CreateUser))
	r.Post("/api/v1/login", handlers.WrapHandler(userHandler.LoginUser))

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(st.JwtSecret.Public))
		r.Get("/api/v1/users", handlers.WrapHandler(userHandler.ListUsers))
		r.Get("/api/v1/users/{userUUID}", handlers.WrapHandler(userHandler.GetUser))
		r.Put("/api/v1/users/{userUUID}", handlers.WrapHandler(userHandler.UpdateUser))
		r.Delete("/api/v1/users/{userUUID}", handlers.WrapHandler(userHandler.DeleteUser))
	})
}
