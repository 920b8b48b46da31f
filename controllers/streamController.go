package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"fixmycity-be/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const defaultStreamCollections = "raw_submissions,predicted_issues,issues,work_orders"

// Stream pushes collection change events to a websocket client. Dashboards
// subscribe here instead of polling; every committed transition shows up as
// one event per touched document.
func Stream(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		collections := strings.Split(c.DefaultQuery("collections", defaultStreamCollections), ",")
		for i := range collections {
			collections[i] = strings.TrimSpace(collections[i])
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("failed to upgrade the websocket")
			return
		}
		defer ws.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		events, unsubscribe, err := st.Subscribe(ctx, collections)
		if err != nil {
			log.Error().Err(err).Msg("failed to subscribe to collection changes")
			_ = ws.WriteJSON(gin.H{"error": "Failed to subscribe to changes"})
			return
		}
		defer unsubscribe()

		// read pump: the client never sends data, but reading is how we
		// learn the connection is gone
		go func() {
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		for ev := range events {
			if err := ws.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
