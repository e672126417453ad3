// @title Smart Assessment API
// @version 1.0
// @description 数字素养测评服务：试卷获取、作答、评分与成绩上报。

// @contact.name API支持
// @contact.url http://www.swagger.io/support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /

package main

import (
	"flag"
	"log"
	"smart_assessment_backend/internal/app"
	"smart_assessment_backend/internal/config"
	"smart_assessment_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Sync()

	// 迁移在 NewApp 中已完成
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
