package cmd

import (
	"fmt"
	"os"

	"campus-navi/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "campus-navi",
	Short: "校园地图与导航模拟服务",
	Long:  "campus-navi 提供校园建筑地图、路径生成和实时导航模拟 (HTTP + WebSocket)。",
}

// Execute 运行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "配置文件 (默认 ./campus-navi.yaml)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("campus-navi")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	// 找不到配置文件时使用默认值和环境变量
	_ = viper.ReadInConfig()
}

// loadConfig 读取合并后的配置
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("读取配置失败: %w", err)
	}
	return cfg, nil
}
