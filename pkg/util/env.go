package util

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv 根据环境加载对应的 .env 文件（.env.development / .env.production）
func LoadEnv(env string) error {
	candidates := []string{fmt.Sprintf(".env.%s", env), ".env"}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return godotenv.Load(name)
		}
	}
	return fmt.Errorf("no env file found for %s", env)
}

// GetEnv 获取环境变量
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault 获取环境变量，未设置时返回默认值
func GetEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetIntEnv 获取整型环境变量，非法值返回 0
func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

// GetFloatEnv 获取浮点型环境变量，非法值返回 0
func GetFloatEnv(key string) float64 {
	return cast.ToFloat64(os.Getenv(key))
}

// GetBoolEnv 获取布尔型环境变量
func GetBoolEnv(key string) bool {
	return cast.ToBool(os.Getenv(key))
}
