// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含請求 ID、zap 請求日誌、Prometheus 指標，以及管理路由的 JWT 驗證。
package middleware
