package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AuthTokenKey returns the cache key holding a token's session record,
// keyed by the SHA-256 of the bearer token.
func (r *CacheKeyStruct) AuthTokenKey(tokenHash string) string {
	return fmt.Sprintf("auth:token:%s", tokenHash)
}

// DashboardSnapshotKey returns the cache key for the student dashboard snapshot.
func (r *CacheKeyStruct) DashboardSnapshotKey() string {
	return "dashboard:students"
}

// PSGCProvincesKey returns the cache key for the cached province list.
func (r *CacheKeyStruct) PSGCProvincesKey() string {
	return "psgc:provinces"
}

// PSGCCitiesKey returns the cache key for cities/municipalities of a province.
func (r *CacheKeyStruct) PSGCCitiesKey(provinceCode string) string {
	return fmt.Sprintf("psgc:cities:%s", provinceCode)
}

// PSGCBarangaysKey returns the cache key for barangays of a city/municipality.
func (r *CacheKeyStruct) PSGCBarangaysKey(cityCode string) string {
	return fmt.Sprintf("psgc:barangays:%s", cityCode)
}

var CacheKey = NewCacheKeyStruct()
