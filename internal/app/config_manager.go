package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/openmart/catalog/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads sys_config rows with a short in-process cache so
// hot paths do not hit the database on every request.
type ConfigManager struct {
	app *Application

	mu        sync.RWMutex
	cache     map[string]string
	loadedAt  time.Time
	fallbacks map[string]string
}

func NewConfigManager(app *Application) *ConfigManager {
	fallbacks := make(map[string]string)
	for _, schema := range settingsSchemas {
		fallbacks[schema.Key] = schema.Default
	}
	return &ConfigManager{
		app:       app,
		cache:     make(map[string]string),
		fallbacks: fallbacks,
	}
}

func (m *ConfigManager) get(category, key string) string {
	ck := fmt.Sprintf("%s.%s", category, key)

	m.mu.RLock()
	if time.Since(m.loadedAt) < settingsCacheTTL {
		if v, exists := m.cache[ck]; exists {
			m.mu.RUnlock()
			return v
		}
	}
	m.mu.RUnlock()

	m.reload()

	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, exists := m.cache[ck]; exists {
		return v
	}
	return m.fallbacks[ck]
}

func (m *ConfigManager) reload() {
	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to reload settings", zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]string, len(rows))
	for _, row := range rows {
		m.cache[fmt.Sprintf("%s.%s", row.Type, row.Name)] = row.Value
	}
	m.loadedAt = time.Now()
}

// Invalidate drops the cache; the next read reloads from the database.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadedAt = time.Time{}
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.get(category, key)
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.get(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.get(category, key))
}
