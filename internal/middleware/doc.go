// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了各種中間件函數，用於在 HTTP 請求處理過程中執行額外的操作。
// 目前包含 JWT 身份驗證與請求日誌。
package middleware
