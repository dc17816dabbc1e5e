// Package classify decides whether a discovered media file is a movie or a
// series episode so finished transcodes can be routed to the matching
// library directory. Classification is best effort: any lookup failure
// degrades to Unknown and the file falls back to the default output.
package classify
