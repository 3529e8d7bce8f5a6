package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Trade Journal API

Personal trading journal for forex and crypto: accounts, deposits,
trades with automatic P&L, annotations, screenshots, goals and
aggregate analytics.

## Auth

All /api/* routes except /api/auth/register, /api/auth/login and
/api/auth/logout require a Bearer token from /api/auth/login.

## Routes

- GET  /healthz
- GET  /readyz
- POST /api/auth/register
- POST /api/auth/login
- POST /api/auth/refresh
- POST /api/auth/logout
- POST /api/accounts
- GET  /api/accounts
- GET  /api/accounts/:id
- PUT  /api/accounts/:id
- DELETE /api/accounts/:id
- POST /api/accounts/:id/deposits
- GET  /api/accounts/:id/deposits
- GET  /api/deposits/:id
- PUT  /api/deposits/:id
- DELETE /api/deposits/:id
- POST /api/accounts/:id/trades
- GET  /api/accounts/:id/trades
- GET  /api/trades/:id
- PUT  /api/trades/:id
- PATCH /api/trades/:id/close
- DELETE /api/trades/:id
- POST /api/trades/:id/details
- GET  /api/trades/:id/details
- PUT  /api/trades/:id/details
- POST /api/trades/:id/screenshots (multipart: screenshot_type, file)
- GET  /api/trades/:id/screenshots
- GET  /api/screenshots/:id
- DELETE /api/screenshots/:id
- POST /api/goals
- GET  /api/goals
- GET  /api/goals/:id
- PUT  /api/goals/:id
- DELETE /api/goals/:id
- GET  /api/analysis/overview
- GET  /api/analysis/patterns
- GET  /api/analysis/recommendations
- GET  /api/analysis/history
`)
	})
}
