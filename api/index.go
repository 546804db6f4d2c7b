package handler

import (
	"net/http"
	"sync"

	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"
	innkeepHTTP "innkeep/transport/http"
)

var (
	server *innkeepHTTP.HTTP
	once   sync.Once
)

// Handler serves the API as a single serverless function. Workers do not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
