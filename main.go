package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskchat-backend/agent"
	"taskchat-backend/config"
	"taskchat-backend/controller"
	"taskchat-backend/dao"
	"taskchat-backend/logic"
	"taskchat-backend/middleware"
	"taskchat-backend/models"
	"taskchat-backend/pkg"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run main.go <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}

	// Initialize database
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.Task{}, &models.Conversation{}, &models.Message{})

	// Initialize Chat client and model gateway
	chatClient := pkg.NewChatClient(config.GlobalConfig.Chat.BaseURL, config.GlobalConfig.Chat.APIKey)
	gateway := agent.NewChatGateway(
		chatClient,
		config.GlobalConfig.Chat.Model,
		time.Duration(config.GlobalConfig.Chat.TimeoutSeconds)*time.Second,
	)

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	taskDAO := dao.NewTaskDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)

	// Initialize the agent loop over the task tool catalog
	registry := agent.NewTaskRegistry(taskDAO)
	loop := agent.NewLoop(gateway, registry)

	// Initialize Logics
	userLogic := logic.NewUserLogic(userDAO)
	taskLogic := logic.NewTaskLogic(taskDAO)
	convoLogic := logic.NewConversationLogic(convoDAO, messageDAO)
	exchangeLogic := logic.NewExchangeLogic(convoDAO, messageDAO, userDAO, loop)

	// Initialize Controllers
	userCtrl := controller.NewUserController(userLogic)
	taskCtrl := controller.NewTaskController(taskLogic)
	convoCtrl := controller.NewConversationController(convoLogic)
	chatCtrl := controller.NewChatController(exchangeLogic)

	// Setup Gin router
	r := gin.Default()
	r.POST("/auth/register", userCtrl.Register)
	r.POST("/auth/login", userCtrl.Login)
	r.GET("/user", middleware.Auth, userCtrl.GetUser)
	r.POST("/tasks", middleware.Auth, taskCtrl.CreateTask)
	r.GET("/tasks", middleware.Auth, taskCtrl.ListTasks)
	r.GET("/tasks/:id", middleware.Auth, taskCtrl.GetTask)
	r.PUT("/tasks/:id", middleware.Auth, taskCtrl.UpdateTask)
	r.POST("/tasks/:id/complete", middleware.Auth, taskCtrl.CompleteTask)
	r.DELETE("/tasks/:id", middleware.Auth, taskCtrl.DeleteTask)
	r.GET("/conversations", middleware.Auth, convoCtrl.GetConversations)
	r.GET("/conversations/:id/messages", middleware.Auth, convoCtrl.GetMessages)
	r.DELETE("/conversations/:id", middleware.Auth, convoCtrl.DeleteConversation)
	r.POST("/chat", middleware.Auth, chatCtrl.Chat)

	// Run server
	if err := r.Run(fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
