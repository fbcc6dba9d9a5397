package handler

import (
	"crypto/subtle"
	"net/http"
	"runtime"
	"time"

	"pantry-chef-api/internal/cache"
	"pantry-chef-api/internal/repository"
	"pantry-chef-api/pkg/apierror"
	"pantry-chef-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     repository.Store
	cache     cache.Cache
	adminKey  string
	llmName   string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler. llmName is empty when no
// completion provider is configured.
func NewAdminHandler(store repository.Store, c cache.Cache, adminKey, llmName string) *AdminHandler {
	return &AdminHandler{
		store:     store,
		cache:     c,
		adminKey:  adminKey,
		llmName:   llmName,
		startTime: time.Now(),
	}
}

// RequireKey rejects requests without a matching X-Admin-Key header.
func (h *AdminHandler) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Admin-Key")
		if h.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
			response.Error(w, apierror.Unauthorized("Invalid admin key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	if h.store != nil {
		storeStats, err := h.store.GetStats(ctx)
		if err == nil {
			storeStats["status"] = "connected"
			stats["store"] = storeStats
		} else {
			stats["store"] = map[string]interface{}{
				"backend": h.store.Backend(),
				"status":  "error",
				"error":   err.Error(),
			}
		}
	} else {
		stats["store"] = map[string]interface{}{"status": "not_configured"}
	}

	if h.cache != nil {
		stats["cache"] = map[string]interface{}{"backend": h.cache.Backend()}
	} else {
		stats["cache"] = map[string]interface{}{"backend": "none"}
	}

	if h.llmName != "" {
		stats["llm"] = map[string]interface{}{"provider": h.llmName, "status": "configured"}
	} else {
		stats["llm"] = map[string]interface{}{"status": "not_configured"}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
