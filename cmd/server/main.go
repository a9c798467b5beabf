package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"memberdir/internal/config"
	"memberdir/internal/db"
	"memberdir/internal/handler"
	"memberdir/internal/model"
	"memberdir/internal/repository"
	"memberdir/internal/router"
	"memberdir/internal/service"
	"memberdir/internal/view"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("view init: %v", err)
	}
	e.Renderer = renderer

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Member{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	memberRepo := repository.NewMemberRepository(gormDB)

	if err := seedAdminMember(memberRepo); err != nil {
		log.Fatalf("seed member: %v", err)
	}

	memberService := service.NewMemberService(memberRepo)
	memberHandler := handler.NewMemberHandler(memberService)

	router.Register(e, memberHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// seedAdminMember inserts the fixed admin record once. Safe to call on
// every start.
func seedAdminMember(repo repository.MemberRepository) error {
	phone := "0912345678"
	birthdate := "1990-01-01"
	created, err := repo.CreateIfAbsent(context.Background(), &model.Member{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  "admin123",
		Phone:     &phone,
		Birthdate: &birthdate,
	})
	if err != nil {
		return err
	}
	if created {
		log.Println("seed member created")
	}
	return nil
}
