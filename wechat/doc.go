// Package wechat is a client for the WeChat Official Account credential API.
//
// It issues the two requests needed to sign JS-SDK pages: the access token
// exchange (/cgi-bin/token) and the jsapi ticket exchange
// (/cgi-bin/ticket/getticket). Each call is a single HTTP GET with no
// retries. A response lacking the expected field, or a failed round trip, is
// reported as an *UpstreamError.
package wechat
