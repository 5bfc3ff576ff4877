package main

import (
	"CallBreak/config"
	"CallBreak/internal/auth"
	"CallBreak/internal/game/manager"
	"CallBreak/internal/matchmaker"
	"CallBreak/internal/middleware"
	"CallBreak/internal/storage"
	"CallBreak/internal/utils"
	"CallBreak/internal/websocket"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	utils.Init(config.C.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. Redis
	//-------------------------------------------------------
	rdb, err := storage.Connect(ctx, config.C.Redis.Addr, config.C.Redis.Password, config.C.Redis.DB)
	if err != nil {
		utils.Log.Fatal("redis init failed", "err", err)
	}
	defer rdb.Close()

	//-------------------------------------------------------
	// 2. Hub + GameManager + Matchmaker
	//-------------------------------------------------------
	hub := websocket.NewHub()
	codes := storage.NewRedisCodes(rdb, config.C.Game.CodeTTL)
	gameMgr := manager.NewGameManager(ctx, hub, codes, config.C.Game.MaxRounds)

	repo := matchmaker.NewRedisRepo(rdb)
	svc := matchmaker.NewService(repo, config.C.Match.PlayerTTL, hub)

	gameMgr.AttachMatchmaker(svc)

	hub.OnIncoming = gameMgr.HandlePlayerMessage
	hub.OnDisconnect = func(playerID string) {
		// off the hub loop: leaving touches the room and redis
		go func() {
			_ = svc.Cancel(ctx, playerID)
			if err := gameMgr.Leave(playerID); err != nil && !errors.Is(err, manager.ErrNotInGame) {
				utils.Log.Warn("leave on disconnect", "player", playerID, "err", err)
			}
		}()
	}
	go hub.Run()
	defer hub.Close()

	//-------------------------------------------------------
	// 3. Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "games": gameMgr.Count()})
	})

	authGroup := r.Group("/auth")
	{
		ah := auth.NewHandler([]byte(config.C.JWT.Secret), time.Duration(config.C.JWT.TTLHours)*time.Hour)
		authGroup.POST("/guest", ah.Guest)
		authGroup.GET("/nonce", ah.Nonce)
		authGroup.POST("/nonce", ah.Nonce)
		authGroup.POST("/login", ah.Login)
	}

	//-------------------------------------------------------
	// 4. Authenticated routes
	//-------------------------------------------------------
	secret := []byte(config.C.JWT.Secret)
	authed := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		authed.GET("/ws", websocket.ServeWS(hub))

		mh := matchmaker.NewHandler(svc)
		authed.POST("/match/join", mh.Join)
		authed.POST("/match/cancel", mh.Cancel)

		authed.GET("/games/:id", func(c *gin.Context) {
			s, ok := gameMgr.Snapshot(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": manager.ErrGameNotFound.Error()})
				return
			}
			c.JSON(http.StatusOK, s)
		})
	}

	//-------------------------------------------------------
	// 5. Serve until signalled
	//-------------------------------------------------------
	srv := &http.Server{Addr: config.C.Server.Port, Handler: r}
	go func() {
		utils.Log.Info("server running", "addr", config.C.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("listen", "err", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Error("shutdown", "err", err)
	}
}
