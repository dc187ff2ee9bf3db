package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ReportGenerationKey holds the counter every mutation increments. Cached
// aggregates are stored under the generation current when their query
// started, so a result computed before a mutation is never read after it.
func (r *CacheKeyStruct) ReportGenerationKey() string {
	return "reportes:generacion"
}

// StatisticsKey returns the cache key for the dashboard totals.
func (r *CacheKeyStruct) StatisticsKey(generation int64) string {
	return fmt.Sprintf("reportes:estadisticas:%d", generation)
}

// SubjectDetailsKey returns the cache key for the per-subject summary.
func (r *CacheKeyStruct) SubjectDetailsKey(generation int64) string {
	return fmt.Sprintf("reportes:materias:detalles:%d", generation)
}

// RevokedTokenKey returns the key marking a token ID as logged out.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// LoginAttemptsKey returns the fixed-window counter of login attempts for a
// client IP.
func (r *CacheKeyStruct) LoginAttemptsKey(ip string) string {
	return fmt.Sprintf("auth:login:%s", ip)
}

// ChangesChannel is the Redis PubSub channel carrying mutation events.
func (r *CacheKeyStruct) ChangesChannel() string {
	return "escuela:cambios"
}

var CacheKey = NewCacheKeyStruct()
