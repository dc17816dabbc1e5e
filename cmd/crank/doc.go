// Command crank discovers pending media files, transcodes them through an
// external engine, routes finished output into library directories, and can
// register itself for recurring runs via cron.
package main
