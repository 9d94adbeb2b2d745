// Package services implements the network facing parts of a run behind the [Fetcher] and [Verifier] interfaces.
//
// # Listing Fetch
//
// [ListingService] downloads the logo directory listing with a plain GET. The location may also be a
// file:// URL or a local path, which is read from disk so runs can work offline against a saved index page.
//
// # Logo Verification
//
// [LogoVerifier] issues one HEAD request per distinct matched reference, paced by a [rate.Limiter].
// Servers that reject HEAD with 405 are retried with GET. References that are not http(s) URLs are
// checked on disk.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrTimeout] : the caller's context expired during a request
//   - [shared.ErrMissingArgument] : empty listing location
//   - [shared.ErrInvalidArgument] : unparseable location or unsupported scheme
package services
