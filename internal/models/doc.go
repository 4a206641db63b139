// Package models defines the domain entities flowing through the bot.
//
// The package contains two categories of types:
//
// 1. Social-service records:
//   - [Notification] : a shared-link event delivered to the bot account
//   - [DownloadRequest] : an unread notification interpreted as work
//   - [ProfileEntry] : one row of a followers/following listing
//
// 2. Media-server records:
//   - [MediaUser] : a media server account, matched by name to a sender
//   - [LibraryItem] : an audio file addressable by id and absolute path
//   - [Playlist] : a named, user-owned playlist
//   - [DownloadOutcome] : the normalized result of a download engine run
//
// All entities are process-local and transient; the remote services are the
// sole source of truth and the only durable store.
package models
