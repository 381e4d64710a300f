package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/controllers"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/services"
)

var (
	Version string
	Commit  string
)

func init() {
	if os.Getenv("SECRET") == "" {
		log.Fatal("FATAL: JWT SECRET environment variable is not set.")
	}
	log.Infoln("OK: JWT SECRET environment variable is set.")
}

func main() {
	log.Infof("Version: %s, Commit: %s", Version, Commit)

	log.SetFormatter(&log.TextFormatter{})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cleanup()
		os.Exit(1)
	}()

	conf.Read()
	if err := conf.MakeDataFolders(); err != nil {
		log.Fatalf("[main] Creating data folders: %s", err)
	}

	database.Init()
	services.StartApplyService()

	gin.SetMode("release")
	endPoint := fmt.Sprintf("0.0.0.0:%d", conf.AppCfg.ServerPort)

	log.Infof("[main] start http server listening %s", endPoint)

	server := &http.Server{
		Addr:    endPoint,
		Handler: controllers.Setup(Version, Commit),
		// Runs hold open event streams for however long a human takes to confirm.
		ReadTimeout:    12 * time.Hour,
		WriteTimeout:   12 * time.Hour,
		MaxHeaderBytes: 0,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Fatalln(err)
		}
	}()

	<-c
}

func cleanup() {
	log.Infoln("cleanup ...")
	services.StopApplyService()
	database.Close()
	log.Infoln("cleanup complete")
}
