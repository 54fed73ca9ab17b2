package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
	"github.com/mateuskovac/pickup-tracker/internal/httputil"
	"github.com/mateuskovac/pickup-tracker/internal/service"
	"github.com/mateuskovac/pickup-tracker/internal/store"
)

func newRouter(database *sqlx.DB) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	gameStore := store.NewGameStore(database)
	playerStore := store.NewPlayerStore(database)
	stadiumStore := store.NewStadiumStore(database)

	gameService := service.NewGameService(database, gameStore, playerStore, stadiumStore)
	playerService := service.NewPlayerService(database, playerStore, gameStore, stadiumStore)
	stadiumService := service.NewStadiumService(stadiumStore, gameStore)

	r.Route("/api/stadiums", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name    string  `json:"name"`
				Address *string `json:"address"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if body.Name == "" {
				httputil.BadRequest(w, "Stadium name is required", nil)
				return
			}
			stadium, err := stadiumService.CreateStadium(r.Context(), service.StadiumInput{Name: body.Name, Address: body.Address})
			if err != nil {
				httputil.InternalServerError(w, "Failed to create stadium", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, stadium)
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			skip, limit := pagination(r, 50)
			stadiums, err := stadiumService.ListStadiums(r.Context(), skip, limit)
			if err != nil {
				httputil.InternalServerError(w, "Failed to list stadiums", err)
				return
			}
			httputil.JSON(w, http.StatusOK, stadiums)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			stadium, err := stadiumService.GetStadium(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get stadium", err)
				return
			}
			httputil.JSON(w, http.StatusOK, stadium)
		})

		r.Get("/{id}/games", func(w http.ResponseWriter, r *http.Request) {
			view, err := stadiumService.GetStadiumGames(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get stadium games", err)
				return
			}
			httputil.JSON(w, http.StatusOK, view)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name    *string `json:"name"`
				Address *string `json:"address"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			stadium, err := stadiumService.UpdateStadium(r.Context(), chi.URLParam(r, "id"),
				service.UpdateStadiumInput{Name: body.Name, Address: body.Address})
			if err != nil {
				writeDomainError(w, "Failed to update stadium", err)
				return
			}
			httputil.JSON(w, http.StatusOK, stadium)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := stadiumService.DeleteStadium(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeDomainError(w, "Failed to delete stadium", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]string{"message": "Stadium deleted"})
		})
	})

	r.Route("/api/players", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name     string  `json:"name"`
				Nickname *string `json:"nickname"`
				Profile  *string `json:"profile"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if body.Name == "" {
				httputil.BadRequest(w, "Player name is required", nil)
				return
			}
			player, err := playerService.CreatePlayer(r.Context(),
				service.PlayerInput{Name: body.Name, Nickname: body.Nickname, Profile: body.Profile})
			if err != nil {
				httputil.InternalServerError(w, "Failed to create player", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, player)
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			skip, limit := pagination(r, 50)
			players, err := playerService.ListPlayers(r.Context(), skip, limit)
			if err != nil {
				httputil.InternalServerError(w, "Failed to list players", err)
				return
			}
			httputil.JSON(w, http.StatusOK, players)
		})

		r.Get("/search/by-name", func(w http.ResponseWriter, r *http.Request) {
			name := r.URL.Query().Get("name")
			if name == "" {
				httputil.BadRequest(w, "Query parameter 'name' is required", nil)
				return
			}
			players, err := playerService.SearchPlayers(r.Context(), name)
			if err != nil {
				httputil.InternalServerError(w, "Failed to search players", err)
				return
			}
			httputil.JSON(w, http.StatusOK, players)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			player, err := playerService.GetPlayer(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get player", err)
				return
			}
			httputil.JSON(w, http.StatusOK, player)
		})

		r.Get("/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
			stats, err := playerService.GetStats(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get player stats", err)
				return
			}
			httputil.JSON(w, http.StatusOK, stats)
		})

		r.Get("/{id}/games", func(w http.ResponseWriter, r *http.Request) {
			history, err := playerService.GetGameHistory(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get player games", err)
				return
			}
			httputil.JSON(w, http.StatusOK, history)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name     *string `json:"name"`
				Nickname *string `json:"nickname"`
				Profile  *string `json:"profile"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			player, err := playerService.UpdatePlayer(r.Context(), chi.URLParam(r, "id"),
				service.UpdatePlayerInput{Name: body.Name, Nickname: body.Nickname, Profile: body.Profile})
			if err != nil {
				writeDomainError(w, "Failed to update player", err)
				return
			}
			httputil.JSON(w, http.StatusOK, player)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := playerService.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeDomainError(w, "Failed to delete player", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]string{"message": "Player deleted"})
		})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				StadiumID *uuid.UUID `json:"stadium_id"`
				Date      time.Time  `json:"date"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if body.Date.IsZero() {
				httputil.BadRequest(w, "Game date is required", nil)
				return
			}
			g, err := gameService.CreateGame(r.Context(), body.StadiumID, body.Date)
			if err != nil {
				writeDomainError(w, "Failed to create game", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, g)
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			skip, limit := pagination(r, 20)
			games, err := gameService.ListGames(r.Context(), skip, limit)
			if err != nil {
				httputil.InternalServerError(w, "Failed to list games", err)
				return
			}
			httputil.JSON(w, http.StatusOK, games)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			view, err := gameService.GetGameView(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get game", err)
				return
			}
			httputil.JSON(w, http.StatusOK, view)
		})

		r.Put("/{id}/start", func(w http.ResponseWriter, r *http.Request) {
			g, err := gameService.Start(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to start game", err)
				return
			}
			httputil.JSON(w, http.StatusOK, g)
		})

		r.Put("/{id}/end", func(w http.ResponseWriter, r *http.Request) {
			g, err := gameService.End(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to end game", err)
				return
			}
			httputil.JSON(w, http.StatusOK, g)
		})

		r.Post("/{id}/players", func(w http.ResponseWriter, r *http.Request) {
			gameID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid game ID", err)
				return
			}
			var body struct {
				PlayerID uuid.UUID `json:"player_id"`
				TeamID   uuid.UUID `json:"team_id"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			gp, err := gameService.AddPlayer(r.Context(), gameID, body.PlayerID, body.TeamID)
			if err != nil {
				writeDomainError(w, "Failed to add player to game", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, gp)
		})

		r.Post("/{id}/goals", func(w http.ResponseWriter, r *http.Request) {
			gameID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid game ID", err)
				return
			}
			var body struct {
				TeamID     uuid.UUID  `json:"team_id"`
				ScorerID   uuid.UUID  `json:"scorer_id"`
				AssisterID *uuid.UUID `json:"assister_id"`
				Minute     *time.Time `json:"minute"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			goal, err := gameService.AddGoal(r.Context(), gameID, service.GoalInput{
				TeamID:     body.TeamID,
				ScorerID:   body.ScorerID,
				AssisterID: body.AssisterID,
				Minute:     body.Minute,
			})
			if err != nil {
				writeDomainError(w, "Failed to record goal", err)
				return
			}
			httputil.JSON(w, http.StatusCreated, goal)
		})

		r.Get("/{id}/score", func(w http.ResponseWriter, r *http.Request) {
			score, err := gameService.GetScore(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, "Failed to get score", err)
				return
			}
			httputil.JSON(w, http.StatusOK, score)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := gameService.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeDomainError(w, "Failed to delete game", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]string{"message": "Game deleted"})
		})
	})

	return r
}

func writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		httputil.NotFound(w, err.Error(), err)
	case errors.Is(err, game.ErrInvalidTransition):
		httputil.Conflict(w, err.Error(), err)
	case errors.Is(err, game.ErrInvalidReference):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func pagination(r *http.Request, defaultLimit int) (skip, limit int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}
