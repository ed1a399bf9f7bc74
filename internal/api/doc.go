// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了所有的 HTTP 處理器（handlers）。
// 處理器只負責解析參數、呼叫對應的服務，並將結果或錯誤轉換為 JSON 響應。
package api
