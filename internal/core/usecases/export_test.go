package usecases

// TileCacheKey exposes the cache key layout to tests.
var TileCacheKey = tileCacheKey
