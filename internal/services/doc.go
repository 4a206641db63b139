// Package services implements the remote collaborators behind the bot: the
// Deezer gateway API, the Jellyfin REST API, and the external download engine.
//
// # Deezer Implementation
//
// [DeezerService] speaks the private gw-light gateway. Every call is a POST to
// a single endpoint carrying a method name and a CSRF token; the session is
// bootstrapped from the bot account's ARL cookie via deezer.getUserData.
// Requests are paced with a [rate.Limiter] so notification polling and
// follower reconciliation never burst against the gateway.
//
// An error payload containing NEED_USER_AUTH_REQUIRED means the ARL cookie
// expired; this surfaces as [shared.ErrAuthFailed] and is fatal for the
// process, since no automated re-authentication exists.
//
// # Jellyfin Implementation
//
// [JellyfinService] uses an API key over REST with the MediaBrowser header
// set, identifying itself with a generated device id. Playlist cover uploads
// follow the server's quirk of a base64-encoded request body.
//
// # Download Engine
//
// [CommandDownloader] shells out to a configured binary and parses a JSON
// outcome from stdout. The Executor seam keeps the engine mockable in tests.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAuthFailed] : session cookie rejected
//   - [shared.ErrAPIRequest] : HTTP request failed or non-2xx
//   - [shared.ErrMalformedReply] : expected field absent in a response
//   - [shared.ErrDownloadFailed] : engine-reported failure
package services
