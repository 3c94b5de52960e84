package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// ClaimEvent is pushed to dashboard clients as claims happen
type ClaimEvent struct {
	DistributionID int    `json:"distribution_id"`
	GoodiesType    string `json:"goodies_type"`
	EmployeeID     int    `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	Via            string `json:"via"`
	Remaining      int    `json:"remaining"`
}

// claimFeed buffers events from the request path. The channel is drained by
// the monitoring server; when it is full or no server is running the event
// is dropped rather than slowing a claim down.
var claimFeed = make(chan ClaimEvent, 64)

// PublishClaim feeds the live dashboard. Non-blocking.
func PublishClaim(ev ClaimEvent) {
	select {
	case claimFeed <- ev:
	default:
	}
}

type MonitoringServer struct {
	db         *pgxpool.Pool
	port       int
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

type DashboardStats struct {
	DatabaseStatus     string  `json:"database_status"`
	ResponseTime       int64   `json:"response_time_ms"`
	CPUPercent         float64 `json:"cpu_percent"`
	MemoryPercent      float64 `json:"memory_percent"`
	DiskPercent        float64 `json:"disk_percent"`
	MemoryUsed         string  `json:"memory_used"`
	MemoryTotal        string  `json:"memory_total"`
	DiskUsed           string  `json:"disk_used"`
	DiskTotal          string  `json:"disk_total"`
	TotalDistributions int     `json:"total_distributions"`
	TotalClaims        int     `json:"total_claims"`
	ClaimsToday        int     `json:"claims_today"`
	RemainingStock     int     `json:"remaining_stock"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitoringServer(db *pgxpool.Pool, port int) *MonitoringServer {
	return &MonitoringServer{
		db:      db,
		port:    port,
		clients: make(map[*websocket.Conn]bool),
	}
}

func (ms *MonitoringServer) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", ms.getStats).Methods("GET")
	r.HandleFunc("/ws", ms.handleWebSocket)

	go ms.handleBroadcast()

	addr := fmt.Sprintf(":%d", ms.port)
	log.Printf("[Monitoring] Dashboard listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("[Monitoring] Server stopped: %v", err)
	}
}

func (ms *MonitoringServer) getStats(w http.ResponseWriter, r *http.Request) {
	stats := ms.collectStats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (ms *MonitoringServer) collectStats() DashboardStats {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stats := DashboardStats{DatabaseStatus: "healthy"}

	start := time.Now()
	if err := ms.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	}
	stats.ResponseTime = time.Since(start).Milliseconds()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
		stats.DiskUsed = formatBytes(du.Used)
		stats.DiskTotal = formatBytes(du.Total)
	}

	if stats.DatabaseStatus == "healthy" {
		ms.db.QueryRow(ctx, `SELECT COUNT(*) FROM distributions`).Scan(&stats.TotalDistributions)
		ms.db.QueryRow(ctx, `SELECT COUNT(*) FROM goodies_claims`).Scan(&stats.TotalClaims)
		ms.db.QueryRow(ctx, `SELECT COUNT(*) FROM goodies_claims WHERE received_at::date = CURRENT_DATE`).Scan(&stats.ClaimsToday)
		ms.db.QueryRow(ctx, `SELECT COALESCE(SUM(remaining_count), 0) FROM distributions`).Scan(&stats.RemainingStock)
	}

	return stats
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func (ms *MonitoringServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] WebSocket upgrade failed: %v", err)
		return
	}

	ms.clientsMux.Lock()
	ms.clients[conn] = true
	ms.clientsMux.Unlock()

	// Reader loop only exists to detect disconnects
	go func() {
		defer func() {
			ms.clientsMux.Lock()
			delete(ms.clients, conn)
			ms.clientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (ms *MonitoringServer) handleBroadcast() {
	for ev := range claimFeed {
		ms.clientsMux.Lock()
		for conn := range ms.clients {
			if err := conn.WriteJSON(ev); err != nil {
				conn.Close()
				delete(ms.clients, conn)
			}
		}
		ms.clientsMux.Unlock()
	}
}
