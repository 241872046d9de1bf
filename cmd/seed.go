package cmd

import (
	"context"
	"errors"
	"fmt"

	"campus-navi/db"
	"campus-navi/model"
	"campus-navi/utils"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "迁移表结构并导入初始建筑，可选创建管理员",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().String("file", "", "建筑 JSON 文件 (默认使用内置数据)")
	seedCmd.Flags().String("admin-user", "", "创建或提升为管理员的用户名")
	seedCmd.Flags().String("admin-password", "", "新管理员的密码")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		file = cfg.SeedFile
	}

	conn, err := db.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	n, err := db.SeedBuildings(conn, file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "导入建筑: %d\n", n)

	username, _ := cmd.Flags().GetString("admin-user")
	if username == "" {
		return nil
	}
	password, _ := cmd.Flags().GetString("admin-password")

	ctx := context.Background()
	users := db.NewUserRepo(conn)
	user, err := users.FindByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		if len(password) < 6 {
			return errors.New("新管理员需要至少 6 位的 --admin-password")
		}
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		user = model.User{Username: username, Password: hashed}
		if err := users.Create(ctx, &user); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := users.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return fmt.Errorf("设置角色失败: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "管理员: %s\n", username)
	return nil
}
