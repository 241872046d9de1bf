package config

import (
	"time"

	"github.com/spf13/viper"
)

// DBConfig PostgreSQL 连接配置
type DBConfig struct {
	Host       string `mapstructure:"db_host"`
	Port       string `mapstructure:"db_port"`
	User       string `mapstructure:"db_user"`
	Password   string `mapstructure:"db_password"`
	Name       string `mapstructure:"db_name"`
	TimeZone   string `mapstructure:"db_timezone"`
	MaxRetries int    `mapstructure:"db_max_retries"`
}

// Config 运行配置
// 来源优先级: 命令行参数 > 环境变量 (DB_HOST 等) > 配置文件 > 默认值
type Config struct {
	DB            DBConfig      `mapstructure:",squash"`
	ServerAddr    string        `mapstructure:"server_addr"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTTTL        time.Duration `mapstructure:"jwt_ttl"`
	LayoutFile    string        `mapstructure:"layout_file"`
	WatchLayout   bool          `mapstructure:"watch_layout"`
	SimSpeed      float64       `mapstructure:"sim_speed"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	SeedFile      string        `mapstructure:"seed_file"`
	StaticDir     string        `mapstructure:"static_dir"`
}

// DefaultJWTSecret 开发用密钥，生产环境必须通过 JWT_SECRET 覆盖
const DefaultJWTSecret = "your-secret-key-change-in-production"

// SetDefaults 注册默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "campus")
	v.SetDefault("db_password", "campuspassword")
	v.SetDefault("db_name", "campusnavi")
	v.SetDefault("db_timezone", "UTC")
	v.SetDefault("db_max_retries", 30)
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("jwt_secret", DefaultJWTSecret)
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("layout_file", "")
	v.SetDefault("watch_layout", false)
	v.SetDefault("sim_speed", 0.05)
	v.SetDefault("frame_interval", 16*time.Millisecond)
	v.SetDefault("seed_file", "")
	v.SetDefault("static_dir", "./static")
}

// Load 从 viper 读取配置
// 环境变量不加前缀，与部署脚本里的 DB_HOST/DB_PORT 保持一致
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
