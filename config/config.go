// config/config.go - 配置管理
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// Load 加载配置文件，环境变量覆盖文件配置（SERVER_PORT -> server.port）
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if loadErr := godotenv.Load(".env"); loadErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", loadErr)
		}

		k = koanf.New(".")
		err = load(k, configPath)
	})

	return err
}

func load(k *koanf.Koanf, configPath string) error {
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}

	// 加载环境变量（会覆盖配置文件）
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}
	conf.normalize()

	Conf = conf
	return nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

// normalize 补全默认值并转换时间单位
func (c *AppConfig) normalize() {
	c.Server.ReadTimeout = c.Server.ReadTimeout * time.Second
	c.Server.WriteTimeout = c.Server.WriteTimeout * time.Second

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.JWT.ExpireTime == 0 {
		c.JWT.ExpireTime = 24
	}
	if c.Auth.TokenStore == "" {
		c.Auth.TokenStore = TokenStoreDatabase
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Bool(key)
}

// Reload 重新加载配置
func Reload(configPath string) error {
	if k == nil {
		return fmt.Errorf("配置未初始化")
	}
	return load(koanf.New("."), configPath)
}
