// Energy API serves the stored manufacturing energy records
// and pushes every newly collected batch to websocket clients.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/config"
	"github.com/NotCoffee418/manufacturing_energy/pkg/energydb"
	"github.com/NotCoffee418/manufacturing_energy/pkg/pathing"
	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type recordReader interface {
	LatestBatch() (types.EnergyBatch, error)
	RecordsBetween(from, to time.Time) ([]types.EnergyRecord, error)
	DailyTotals(from, to time.Time) ([]energydb.DailyTotal, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// gorilla allows one writer per connection at a time
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) send(message []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// ws clients for broadcasting new batches
var (
	wsClients                   = make(map[*websocket.Conn]*wsClient)
	wsClientsMutex sync.RWMutex = sync.RWMutex{}
)

func main() {
	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadEnergyAPIConfig(); err != nil {
		log.Fatalf("Failed to load energy API config: %v", err)
	}
	cfg := config.ActiveEnergyAPIConfig

	store, err := energydb.Open(pathing.GetEnergyDbPath())
	if err != nil {
		log.Fatalf("Failed to open energy database: %v", err)
	}
	defer store.Close()

	go watchForNewBatches(store, time.Duration(cfg.PollIntervalSeconds)*time.Second)

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	log.Printf("Starting Manufacturing Energy API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, newRouter(store)))
}

func newRouter(store recordReader) *httprouter.Router {
	router := httprouter.New()

	router.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Manufacturing Energy API",
			"status":  "running",
		})
	})

	router.GET("/latest", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		batch, err := store.LatestBatch()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(batch.Records) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "No records available yet",
			})
			return
		}
		writeJSON(w, http.StatusOK, batch)
	})

	router.GET("/records", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		from, to, err := parseRange(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		records, err := store.RecordsBetween(from, to)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	router.GET("/daily", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		from, to, err := parseRange(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		totals, err := store.DailyTotals(from, to)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, totals)
	})

	router.GET("/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := AddWebSocketClient(conn)

		// Send latest batch immediately if available
		if batch, err := store.LatestBatch(); err == nil && len(batch.Records) > 0 {
			if err := client.send(batch.ToJsonBytes()); err != nil {
				RemoveWebSocketClient(conn)
				return
			}
		}

		// Keep connection alive
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				RemoveWebSocketClient(conn)
				break
			}
		}
	})

	return router
}

// RFC 3339 from/to query params, defaults to the last 7 days
func parseRange(r *http.Request) (from, to time.Time, err error) {
	to = time.Now().UTC()
	from = to.AddDate(0, 0, -7)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			return from, to, fmt.Errorf("invalid from: %w", err)
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			return from, to, fmt.Errorf("invalid to: %w", err)
		}
	}
	if to.Before(from) {
		return from, to, errors.New("to is before from")
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Collector runs are external, so new batches are detected by polling
func watchForNewBatches(store recordReader, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	lastRunID := ""
	if batch, err := store.LatestBatch(); err == nil {
		lastRunID = batch.RunID
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		batch, err := store.LatestBatch()
		if err != nil {
			log.Printf("Failed to read latest batch: %v", err)
			continue
		}
		if batch.RunID == "" || batch.RunID == lastRunID {
			continue
		}
		lastRunID = batch.RunID
		log.Printf("Broadcasting batch %s with %d records", batch.RunID, len(batch.Records))
		BroadcastToWebSockets(batch)
	}
}

func BroadcastToWebSockets(batch types.EnergyBatch) {
	wsClientsMutex.RLock()
	clients := make([]*wsClient, 0, len(wsClients))
	for _, client := range wsClients {
		clients = append(clients, client)
	}
	wsClientsMutex.RUnlock()

	message := batch.ToJsonBytes()
	for _, client := range clients {
		if err := client.send(message); err != nil {
			RemoveWebSocketClient(client.conn)
		}
	}
}

func AddWebSocketClient(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	wsClientsMutex.Lock()
	wsClients[conn] = client
	wsClientsMutex.Unlock()
	return client
}

func RemoveWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	delete(wsClients, conn)
	wsClientsMutex.Unlock()
	conn.Close()
}
