// Package download fetches the catalog feed from the remote FTP host.
//
// Download returns a Result describing the local copy; chaining the next pipeline
// stage is left to the caller. Failures are typed: ConnectionError for dial and
// login problems, TransferError for a missing remote file or an incomplete
// transfer. The session is always closed with QUIT.
package download
