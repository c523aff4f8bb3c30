// Package download fetches licensed audiobook parts from the OverDrive
// content servers.
//
// Parts are independent byte streams, so they download on a bounded worker
// pool; a size-match check makes re-runs resume instead of refetching.
package download
