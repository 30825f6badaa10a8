package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig конфигурация приложения
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Business BusinessConfig `toml:"business"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig расположение данных
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// BusinessConfig параметры расчета по умолчанию
type BusinessConfig struct {
	DaysSupply      int      `toml:"days_supply"`      // дней запаса
	TotalShelves    int      `toml:"total_shelves"`    // бюджет полок
	SafetyFactor    float64  `toml:"safety_factor"`    // коэффициент безопасности
	PackageMultiple int      `toml:"package_multiple"` // кратность упаковки по умолчанию
	Branches        []string `toml:"branches"`         // упорядоченный набор филиалов
}

// DefaultConfig конфигурация по умолчанию
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20317,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Business: BusinessConfig{
			DaysSupply:      10,
			TotalShelves:    786,
			SafetyFactor:    1.2,
			PackageMultiple: 1,
			Branches:        []string{"Казыбаева", "Барыс", "Астана", "Шымкент"},
		},
	}
}

// GetExeDir каталог исполняемого файла
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig загружает config.toml из каталога исполняемого файла.
// Отсутствующий файл не ошибка: действуют значения по умолчанию.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// LoadConfigFile загружает конфигурацию из указанного файла
func LoadConfigFile(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределения из окружения (для E2E и локального запуска)
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("AUTOSORT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AUTOSORT_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
}

// SaveConfig сохраняет конфигурацию в config.toml
func SaveConfig(cfg *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir создает каталог данных и подкаталоги
func EnsureDataDir(cfg *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	dataDir := cfg.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}
