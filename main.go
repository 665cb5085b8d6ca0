package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"edhserver/catalog"  //カードカタログのキャッシュ参照
	"edhserver/database" //PostgreSQLとRedisの初期化
	"edhserver/handlers" //ゲスト認証・デッキ保存・死活監視のHTTPハンドラ
	"edhserver/table"    //WebSocket接続とルーム同期のコア
	"edhserver/table/registry"
	"edhserver/utils" //ロガーの初期化とCronジョブ(放置ルームの定期削除)

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

func main() {
	var logger *zap.Logger
	var err error
	logger, err = utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	// ルームと切断記録の置き場。プロセス起動時に一度だけ作る
	reg := registry.New(logger)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	// 非同期でPostgreSQLとRedisの初期化
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		config, err := database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
		}
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	// クーロンスケジューラのセットアップと呼び出し
	go utils.CronCleaner(reg, logger)

	// カタログ照会はPostgreSQLのキャッシュテーブル越しに行う
	cat := catalog.NewGormCatalog(db, logger)

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://192.168.1.1:8080"}, //ここにデプロイサーバーのIPアドレスを設定
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "SessionID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	router.POST("/auth/guest", func(c *gin.Context) {
		handlers.GuestToken(c, db, logger)
	})
	router.POST("/decks", handlers.RequireGuest(logger), func(c *gin.Context) {
		handlers.SaveDeck(c, db, logger)
	})
	router.GET("/decks/:deckId", func(c *gin.Context) {
		handlers.GetDeck(c, db, logger)
	})
	router.GET("/health", func(c *gin.Context) {
		handlers.Health(c, reg)
	})
	router.GET("/ws", func(c *gin.Context) {
		table.HandleConnections(context.Background(), c.Writer, c.Request, db, rdb, cat, reg, logger, upgrader)
	})

	// テスト時はHTTPサーバーとして運用。デフォルトポートは ":8080"
	router.Run()

	// // 本番環境ではコメントアウトを解除し、HTTPSサーバーとして運用
	// err = router.RunTLS(":443", "path/to/cert.pem", "path/to/key.pem")
	// if err != nil {
	// 	logger.Fatal("Failed to run HTTPS server: ", zap.Error(err))
	// }
}
