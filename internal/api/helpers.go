package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"banking_api/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Pagination bounds
const (
	defaultPageSize = 20  // Page size when none is requested
	maxPageSize     = 100 // Upper bound for page_size
	cachedPages     = 5   // How many leading pages get invalidated after writes
)

// pagination reads page/page_size from the query string, clamped to bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// uintParam parses a numeric path parameter, responding 400 on bad input
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// totalPages computes the page count for a total row count
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// accountCacheKey is the cache key for a single account lookup
func accountCacheKey(accountID uint) string {
	return "account:" + strconv.Itoa(int(accountID))
}

// statementCacheKey is the cache key for one page of an account statement
func statementCacheKey(accountID uint, page, pageSize int) string {
	return "statement:account:" + strconv.Itoa(int(accountID)) +
		":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// redisFromContext pulls the Redis client injected by the router, if any.
// Handlers degrade to uncached operation without one (tests run this way).
func redisFromContext(c *gin.Context) *redis.Client {
	v, ok := c.Get("redisClient")
	if !ok {
		return nil
	}
	rdb, _ := v.(*redis.Client)
	return rdb
}

// invalidateAccountCaches drops the cached lookup and the first statement
// pages for each account after a balance mutation
func invalidateAccountCaches(c *gin.Context, accountIDs ...uint) {
	rdb := redisFromContext(c)
	if rdb == nil {
		return
	}
	ctx := context.Background()
	for _, id := range accountIDs {
		_ = utils.DeleteCache(ctx, rdb, accountCacheKey(id))
		// Simple version: drop the first few statement pages
		for page := 1; page <= cachedPages; page++ {
			_ = utils.DeleteCache(ctx, rdb, statementCacheKey(id, page, defaultPageSize))
		}
	}
}
