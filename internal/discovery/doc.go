// Package discovery scans the input directory for media files awaiting
// transcode. Scans are shallow and deterministic so repeated runs over the
// same directory always produce the same work list.
package discovery
