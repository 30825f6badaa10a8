package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/CronusSR/Autosort-tovar/internal/config"
	"github.com/CronusSR/Autosort-tovar/internal/server"
	"github.com/CronusSR/Autosort-tovar/internal/util"
)

var (
	port    = flag.Int("port", 0, "порт сервера (перекрывает config.toml)")
	devMode = flag.Bool("dev", false, "режим разработки")
	dataDir = flag.String("dataDir", "", "каталог данных (перекрывает config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Autosort — расчет заказов по филиалам")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("конфигурация не загружена, используются значения по умолчанию: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger, err := newLogger(cfg.Server.DevMode)
	if err != nil {
		log.Fatalf("логгер не создан: %v", err)
	}
	defer logger.Sync()

	if dir, err := config.EnsureDataDir(cfg); err != nil {
		logger.Warn("каталог данных не создан", zap.Error(err))
	} else {
		fmt.Printf("Каталог данных: %s\n", dir)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("сервер не создан: %v", err)
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Сервер слушает порт %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("сервер не запустился: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Браузер не открылся, откройте вручную: %s\n", url)
		}
	} else {
		fmt.Printf("Режим разработки: %s\n", url)
	}

	fmt.Println("\nCtrl+C для остановки...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nОстановка сервера...")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
