// Package jssdk issues JS-SDK page signatures.
//
// A Signer turns a page URL into a Signature by combining the current
// jsapi ticket with a fresh nonce and timestamp. Tickets come from a
// TicketProvider, which caches them and obtains the access token it needs
// from a TokenProvider. Both providers refresh through a cache.CredentialCache,
// so upstream calls happen only when the cached credential has expired.
package jssdk
