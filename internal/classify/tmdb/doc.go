// Package tmdb provides a minimal client for The Movie Database search API.
package tmdb
