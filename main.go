package main

import (
	"context"
	"lifeline/app/client/dashboard"
	"lifeline/app/client/loop"
	"lifeline/app/client/nearby"
	"lifeline/app/client/reasoning"
	"lifeline/app/config"
	"lifeline/app/service/conversation"
	"lifeline/app/service/guard"
	"lifeline/app/service/notify"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"
	"lifeline/app/service/server"
	"lifeline/app/service/webhook"
	"lifeline/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, loop.NewClient)
	do.Provide(di, nearby.NewClient)
	do.Provide(di, dashboard.NewClient)
	do.Provide(di, reasoning.NewClient)
	do.Provide(di, profile.New)
	do.Provide(di, conversation.NewFileStore)
	do.Provide(di, conversation.NewContextCache)
	do.Provide(di, guard.New)
	do.Provide(di, reasoner.New)
	do.Provide(di, notify.New)
	do.Provide(di, webhook.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*conversation.ContextCache](di).RunJanitor(appCtx)
	go do.MustInvoke[*notify.Service](di).Run(appCtx)

	go do.MustInvoke[*server.Service](di).Run(appCtx)

	<-appCtx.Done()
}
