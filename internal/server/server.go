package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/Austinekay/mainserver/internal/admin/application"
	"github.com/Austinekay/mainserver/internal/config"
	mongodoc "github.com/Austinekay/mainserver/internal/infrastructure/mongo"
	s3infra "github.com/Austinekay/mainserver/internal/infrastructure/s3"
	adminhttp "github.com/Austinekay/mainserver/internal/interfaces/http/admin"
	commonhttp "github.com/Austinekay/mainserver/internal/interfaces/http/common"
	publichttp "github.com/Austinekay/mainserver/internal/interfaces/http/public"
	publicapp "github.com/Austinekay/mainserver/internal/public/application"
	"github.com/Austinekay/mainserver/internal/recommend"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// DDD の Interface 層に相当し、アプリケーションサービスをルータへ接続する責務を担う。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	database         *mongo.Database
	location         *time.Location
	jwtConfigs       []config.JWTConfig
	jwtAudience      string
	addr             string
	allowedOrigins   []string
	maxUploadBytes   int64
	shopRepo         *mongodoc.ShopRepository
	reviewRepo       *mongodoc.ReviewRepository
	notificationRepo *mongodoc.NotificationRepository
	analyticsRepo    *mongodoc.AnalyticsRepository
	shopQueries      publicapp.ShopQueryService
	shopCommands     publicapp.ShopCommandService
	reviewQueries    publicapp.ReviewQueryService
	reviewCommands   publicapp.ReviewCommandService
	adminShops       adminapp.ShopService
	settings         adminapp.SettingsService
	pipeline         *recommend.Pipeline
	uploader         *s3infra.Uploader
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run はHTTPサーバーを起動し、Public/Adminのルーティングやミドルウェアを組み立てる。
// インフラ初期化に限定し、ドメインロジックをここに書かないことで層の責務を守る。
func (s *Server) Run() error {
	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.shopRepo.EnsureIndexes(bootCtx); err != nil {
		s.logger.Printf("2dsphere インデックスの作成に失敗しました: %v", err)
	}
	if err := s.settings.EnsureDefaults(bootCtx); err != nil {
		s.logger.Printf("既定設定の投入に失敗しました: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:         s.logger,
		ShopQueries:    s.shopQueries,
		ShopCommands:   s.shopCommands,
		ReviewQueries:  s.reviewQueries,
		ReviewCommands: s.reviewCommands,
		Notifications:  s.notificationRepo,
		Analytics:      s.analyticsRepo,
		Reviews:        s.reviewRepo,
		Pipeline:       s.pipeline,
		Uploader:       s.imageUploader(),
		Location:       s.location,
		MaxUploadBytes: s.maxUploadBytes,
	})
	publicHandler.Register(router, s.authMiddleware, s.maintenanceMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:      s.logger,
		ShopService: s.adminShops,
		Settings:    s.settings,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireAdmin)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// imageUploader は nil の *Uploader を interface に包んで渡さないためのガード。
func (s *Server) imageUploader() publichttp.ImageUploader {
	if s.uploader == nil {
		return nil
	}
	return s.uploader
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
// ドメインの状態ではなくインフラ状態のみを返す設計。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
// Public/Admin 双方のルートで利用するため Server に集約している。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Authorization header is required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bearer token is required"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access token is empty"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid access token"})
			return
		}

		user := authenticatedUser{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: claims.Role,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin は認証済みユーザーが admin ロールを持つことを要求する。
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := commonhttp.UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			s.writeJSON(w, http.StatusForbidden, map[string]string{"message": "Admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// maintenanceMiddleware はメンテナンスモード中、一般ユーザーの書き込みを 503 で拒否する。
// 読み取り系と管理者の操作は影響を受けない。
func (s *Server) maintenanceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := commonhttp.UserFromContext(r.Context()); ok && user.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if s.settings.Bool(ctx, "maintenanceMode", false) {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "The service is temporarily unavailable for maintenance"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
// いずれの設定にも一致しない場合は認証エラーを返す。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

// contains は Audience 等の検証で利用する単純な包含チェック。
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// writeJSON は JSON レスポンスの共通書き込み処理。
// Content-Type 設定とエラーログ出力を一元化して重複を避ける。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
// アプリケーションの外側で扱うべき OS 依存の関心事をここへ閉じ込める。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
// 依存解決の起点となるファクトリとして機能する。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, UTC を使用します", cfg.Timezone, err)
	}

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	srv.shopRepo = mongodoc.NewShopRepository(srv.database, cfg.ShopCollection)
	srv.reviewRepo = mongodoc.NewReviewRepository(srv.database, cfg.ReviewCollection)
	srv.notificationRepo = mongodoc.NewNotificationRepository(srv.database, cfg.NotificationCollection)
	srv.analyticsRepo = mongodoc.NewAnalyticsRepository(srv.database, cfg.AnalyticsCollection)
	settingsRepo := mongodoc.NewSettingsRepository(srv.database, cfg.SettingsCollection)
	adminShopRepo := mongodoc.NewAdminShopRepository(srv.database, cfg.ShopCollection, cfg.ReviewCollection)

	srv.settings = adminapp.NewSettingsService(settingsRepo, cfg.ServerLog)
	srv.shopQueries = publicapp.NewShopQueryService(srv.shopRepo)
	srv.shopCommands = publicapp.NewShopCommandService(srv.shopRepo, srv.settings)
	srv.reviewQueries = publicapp.NewReviewQueryService(srv.reviewRepo)
	srv.reviewCommands = publicapp.NewReviewCommandService(srv.reviewRepo, srv.shopRepo, srv.notificationRepo)
	srv.adminShops = adminapp.NewShopService(adminShopRepo, srv.notificationRepo)

	ranker := recommend.NewOpenRouterClient(recommend.OpenRouterConfig{
		APIKey:     cfg.OpenRouterAPIKey,
		Model:      cfg.OpenRouterModel,
		Endpoint:   cfg.OpenRouterURL,
		HTTPClient: &http.Client{Timeout: cfg.OpenRouterTimeout},
		Logger:     cfg.ServerLog,
	})
	srv.pipeline = recommend.NewPipeline(srv.shopRepo, ranker, cfg.ServerLog)

	uploaderCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	uploader, err := s3infra.NewUploader(uploaderCtx, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		cfg.ServerLog.Printf("S3 アップローダの初期化に失敗したため画像アップロードを無効化します: %v", err)
	}
	srv.uploader = uploader

	return srv
}
