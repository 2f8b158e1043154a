// Package commands implements the webpush CLI.
//
// Settings come from WEBPUSH_* environment variables, optionally loaded from
// a .env file in the working directory or one of its parents, and can be
// overridden by flags.
package commands
